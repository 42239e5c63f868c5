package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdmin(t *testing.T) {
	a, err := newAdmin(" Office ", "office@ekaa.example", "s3cret-pass", "SuperAdmin")
	require.NoError(t, err)
	assert.Equal(t, "Office", a.Name)
	assert.Equal(t, models.RoleSuperAdmin, a.Role)
	assert.True(t, a.IsActive)
	assert.True(t, auth.CheckPassword(a.PasswordHash, "s3cret-pass"))

	_, err = newAdmin("x", "not-an-email", "s3cret-pass", "admin")
	assert.Error(t, err)
	_, err = newAdmin("x", "a@ekaa.example", "s3cret-pass", "owner")
	assert.Error(t, err)
	_, err = newAdmin("x", "a@ekaa.example", "123", "admin")
	assert.Error(t, err)
}

func TestCheckRouting(t *testing.T) {
	var out bytes.Buffer
	checkRoutingCmd.SetOut(&out)
	require.NoError(t, checkRoutingCmd.RunE(checkRoutingCmd, nil))
	assert.Contains(t, out.String(), "(built-in): ok")
	assert.Contains(t, out.String(), "trainings:")

	bad := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("eventDoctors:\n  Somewhere: Nobody\n"), 0o644))
	assert.Error(t, checkRoutingCmd.RunE(checkRoutingCmd, []string{bad}))
}

func TestSummarize(t *testing.T) {
	var out bytes.Buffer
	summarize(&out, routing.Default())
	assert.Contains(t, out.String(), "doctors:")
}
