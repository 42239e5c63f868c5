package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		MailAdminEmail: "office@ekaa.example",
		TaskWorkers:    2,
		TaskQueueSize:  16,
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", "prod", func(*AppConfig) {}, ""},
		{"missing secret", "dev", func(c *AppConfig) { c.JWTSecret = "" }, "jwt_secret is required"},
		{"short secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = "short" }, "at least 32"},
		{"short secret in dev", "dev", func(c *AppConfig) { c.JWTSecret = "short" }, ""},
		{"superadmin without password", "dev", func(c *AppConfig) { c.SuperAdminEmail = "a@b.c" }, "superadmin_password"},
		{"no office inbox", "dev", func(c *AppConfig) { c.MailAdminEmail = "" }, "mail_admin_email"},
		{"no workers", "dev", func(c *AppConfig) { c.TaskWorkers = 0 }, "task_workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateApp(tt.env, cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://ekaa.co.in", "http://localhost:3000"}, splitList(" https://ekaa.co.in, ,http://localhost:3000 "))
	assert.Nil(t, splitList(""))
}

func TestAllowsAny(t *testing.T) {
	assert.True(t, allowsAny([]string{"*"}))
	assert.True(t, allowsAny(nil))
	assert.False(t, allowsAny([]string{"https://ekaa.co.in"}))
}
