package routing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/default_link", tbl.DefaultPaymentLink)
}

func TestPaymentLinkForEvent(t *testing.T) {
	tbl := Default()
	tests := []struct {
		event string
		want  string
	}{
		{"Decode The Child", "https://buy.stripe.com/6oU6ozgGsc45cfCgYj93y02"},
		{"L 1", "https://buy.stripe.com/14A3cxdvCbBn8qU32O7Vm0z"},
		{" L 1 ", "https://buy.stripe.com/14A3cxdvCbBn8qU32O7Vm0z"},
		{"Unknown Workshop", "https://buy.stripe.com/default_link"},
		{"", "https://buy.stripe.com/default_link"},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			if got := tbl.PaymentLinkForEvent(tt.event); got != tt.want {
				t.Errorf("PaymentLinkForEvent(%q) = %q, want %q", tt.event, got, tt.want)
			}
		})
	}
}

func TestPaymentLinkForSessionDate(t *testing.T) {
	tbl := Default()

	link, ok := tbl.PaymentLinkForSessionDate("Aug 20, 2025")
	assert.True(t, ok)
	assert.Equal(t, "https://buy.stripe.com/7sY00lfDKcFrcHa1YK7Vm0L", link)

	link, ok = tbl.PaymentLinkForSessionDate("Sept 7, 2025")
	assert.True(t, ok)
	assert.Contains(t, link, "checkout.square.site")

	_, ok = tbl.PaymentLinkForSessionDate("Dec 1, 2025")
	assert.False(t, ok)
}

func TestCC(t *testing.T) {
	tbl := Default()
	tests := []struct {
		city string
		want []string
	}{
		{"Houston | ICH L1 Training | Aug 20-21", []string{"connect@ekaausa.com", "docbhardwaj@gmail.com"}},
		{"Houston | ICH L3 Training | Aug 13-17", []string{"connect@ekaausa.com", "Aiyasawmy@gmail.com"}},
		{"Austin | Decode The Child | Sep 1", []string{"connect@ekaausa.com", "Aiyasawmy@gmail.com"}},
		{"Austin | L 1 | Sep 1", []string{"connect@ekaausa.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.CC(tt.city))
		})
	}
}

func TestCC_DoesNotAliasAlwaysCC(t *testing.T) {
	tbl := Default()
	_ = tbl.CC("ICH L1 Training")
	assert.Equal(t, []string{"connect@ekaausa.com"}, tbl.AlwaysCC)
}

func TestTraining(t *testing.T) {
	tbl := Default()

	m, ok := tbl.Training("Hypnotherapy L1 Training", "11th Aug-12th Aug")
	require.True(t, ok)
	assert.Equal(t, "L1", m.Level)
	assert.Equal(t, "https://buy.stripe.com/3cI5kv9e03xz7ZmdM793y04", m.PaymentLink)
	assert.Equal(t, "Dr. Manoj", m.Instructor)

	m, ok = tbl.Training("Advanced Modalities for Health Resolutions", "13th–17th Aug")
	require.True(t, ok)
	assert.Equal(t, "L3", m.Level)
	assert.Equal(t, "Yuvraj Kapadia", m.Instructor)

	m, ok = tbl.Training("Hypnotherapy L2 Training", "")
	require.True(t, ok)
	assert.Equal(t, "https://buy.stripe.com/eVq6oz61O7NP4NaeQb93y05", m.PaymentLink)
	assert.Equal(t, "Dr. Manoj Bhardwaj", m.Instructor)

	_, ok = tbl.Training("Family Constellation", "Aug 1")
	assert.False(t, ok)
}

func TestNormalizeDates(t *testing.T) {
	assert.Equal(t, "13-17 aug", NormalizeDates("13th–17th Aug"))
	assert.Equal(t, "aug 20-21 2025", NormalizeDates("Aug  20-21, 2025"))
}

func TestSplitCity(t *testing.T) {
	place, event, dates := SplitCity("Houston TX | Decode The Child | Aug 9, 2025")
	assert.Equal(t, "Houston TX", place)
	assert.Equal(t, "Decode The Child", event)
	assert.Equal(t, "Aug 9, 2025", dates)

	place, event, dates = SplitCity("Dallas")
	assert.Equal(t, "Dallas", place)
	assert.Empty(t, event)
	assert.Empty(t, dates)
}

func TestLoad_RejectsUnknownDoctor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
defaultPaymentLink: https://pay.example.com
doctors:
  "Dr A": {email: a@example.com}
eventDoctors:
  "Workshop": "Dr B"
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown doctor "Dr B"`)
}
