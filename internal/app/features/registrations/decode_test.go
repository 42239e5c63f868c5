package registrations

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Coercion(t *testing.T) {
	d, ok := Lookup("family-constellation")
	require.True(t, ok)

	got := d.normalize(map[string]any{
		"firstName":                "  Asha ",
		"email":                    "Asha@Example.COM",
		"communicationPreferences": "false",
		"termsandcondition":        "true",
		"mobileNo":                 json.Number("5550102030"),
		"unknownField":             "dropped",
		"middleName":               nil,
	})

	assert.Equal(t, "Asha", got["firstName"])
	assert.Equal(t, "asha@example.com", got["email"])
	assert.Equal(t, false, got["communicationPreferences"])
	assert.Equal(t, true, got["termsandcondition"])
	assert.Equal(t, "5550102030", got["mobileNo"])
	assert.NotContains(t, got, "unknownField")
	assert.NotContains(t, got, "middleName")
}

func TestCoerceBool_Unparseable(t *testing.T) {
	assert.Equal(t, "maybe", coerceBool("maybe"))
	assert.Equal(t, true, coerceBool([]string{"false", "on"}))
}

func TestCoerceList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"json array", []any{"L1", " L2 ", ""}, []string{"L1", "L2"}},
		{"repeated form values", []string{"L1", "L3"}, []string{"L1", "L3"}},
		{"json string", `["L1","L2"]`, []string{"L1", "L2"}},
		{"json string in form", []string{`["L2"]`}, []string{"L2"}},
		{"single value", "L1", []string{"L1"}},
		{"blank", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := coerceList(tt.in).([]string)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBody_SessionShapes(t *testing.T) {
	tests := []struct {
		name string
		ct   string
		body string
		want any
	}{
		{"nested json", "application/json", `{"session":{"id":"abc","Event":"x"},"fullName":"A"}`, "abc"},
		{"explicit wins", "application/json", `{"sessionId":"top","session":{"id":"nested"}}`, "top"},
		{"form key", "application/x-www-form-urlencoded", "session%5Bid%5D=form&fullName=A", "form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.ct)
			b, err := parseBody(httptest.NewRecorder(), r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.values["sessionId"])
		})
	}
}

func TestParseBody_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"firstName":`))
	r.Header.Set("Content-Type", "application/json")
	_, err := parseBody(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, errBadBody)
}

func TestBuildAndValueOf(t *testing.T) {
	d, _ := Lookup("decode")
	reg := d.build(d.normalize(map[string]any{
		"firstName":                "Ravi",
		"dob":                      "1990-04-05",
		"communicationPreferences": true,
		"permanenetAddress":        "12 Main St, Apt 4",
	}))

	require.NotNil(t, reg.DOB)
	assert.Equal(t, time.Date(1990, 4, 5, 0, 0, 0, 0, time.UTC), *reg.DOB)
	assert.Equal(t, "Ravi", valueOf(&reg, "firstName"))
	assert.Equal(t, "true", valueOf(&reg, "communicationPreferences"))
	assert.Equal(t, "", valueOf(&reg, "termsandcondition"))
	assert.Equal(t, "1990-04-05T00:00:00.000Z", valueOf(&reg, "dob"))
	assert.Equal(t, "12 Main St, Apt 4", valueOf(&reg, "permanenetAddress"))
	assert.Equal(t, "pending", valueOf(&reg, "status"))
}

func TestPrograms_Consistent(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Programs() {
		assert.False(t, seen[d.Path], "duplicate path %s", d.Path)
		seen[d.Path] = true
		for _, name := range d.Fields {
			_, ok := fields[name]
			assert.True(t, ok, "%s: unknown field %s", d.Key, name)
		}
		for _, r := range d.Rules {
			assert.Contains(t, d.Fields, r.Field, "%s: rule for unaccepted field", d.Key)
		}
		for _, img := range d.Images {
			_, ok := fields[img.Target]
			assert.True(t, ok, "%s: unknown image target %s", d.Key, img.Target)
		}
		for _, c := range d.Columns {
			assert.NotEmpty(t, c.Header)
		}
	}
}
