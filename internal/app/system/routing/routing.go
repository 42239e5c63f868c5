// Package routing holds the table that decides who is copied on a
// registration notification and which payment link a registrant receives.
//
// The table is loaded once at startup, from the file named by the
// routing_file setting or from the embedded defaults, and is read-only
// afterwards.
package routing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Table is the parsed routing file.
type Table struct {
	DefaultPaymentLink  string            `yaml:"defaultPaymentLink"`
	DefaultInstructor   string            `yaml:"defaultInstructor"`
	AlwaysCC            []string          `yaml:"alwaysCc"`
	Doctors             map[string]Doctor `yaml:"doctors"`
	EventDoctors        map[string]string `yaml:"eventDoctors"`
	CCRules             []CCRule          `yaml:"ccRules"`
	SessionPaymentLinks map[string]string `yaml:"sessionPaymentLinks"`
	Trainings           []Training        `yaml:"trainings"`
}

// Doctor is a practitioner account.
type Doctor struct {
	Email       string `yaml:"email"`
	PaymentLink string `yaml:"paymentLink"`
}

// CCRule copies Doctor when Contains appears in the routed text.
type CCRule struct {
	Contains string `yaml:"contains"`
	Doctor   string `yaml:"doctor"`
}

// Training describes one hypnotherapy level.
type Training struct {
	Level       string            `yaml:"level"`
	Keywords    []string          `yaml:"keywords"`
	DefaultLink string            `yaml:"defaultLink"`
	Dates       []DateLink        `yaml:"dates"`
	Sessions    []TrainingSession `yaml:"sessions"`
}

// DateLink is a payment link for trainings whose dates match Match.
type DateLink struct {
	Match string `yaml:"match"`
	Link  string `yaml:"link"`
}

// TrainingSession names the instructor for a scheduled run of a level.
type TrainingSession struct {
	Dates      string `yaml:"dates"`
	Instructor string `yaml:"instructor"`
}

// TrainingMatch is the outcome of a training lookup.
type TrainingMatch struct {
	Level       string
	PaymentLink string
	Instructor  string
}

// Default returns the embedded table.
func Default() *Table {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic("routing: embedded defaults invalid: " + err.Error())
	}
	return t
}

// Load reads path, or returns the embedded defaults when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing file: %w", err)
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("routing file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a routing document.
func Parse(b []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks cross references and links.
func (t *Table) Validate() error {
	var errs []error
	if !urlutil.IsValidAbsHTTPURL(t.DefaultPaymentLink) {
		errs = append(errs, errors.New("defaultPaymentLink must be an absolute http(s) URL"))
	}
	for name, d := range t.Doctors {
		if d.Email == "" {
			errs = append(errs, fmt.Errorf("doctor %q has no email", name))
		}
		if d.PaymentLink != "" && !urlutil.IsValidAbsHTTPURL(d.PaymentLink) {
			errs = append(errs, fmt.Errorf("doctor %q has an invalid paymentLink", name))
		}
	}
	for event, doc := range t.EventDoctors {
		if _, ok := t.Doctors[doc]; !ok {
			errs = append(errs, fmt.Errorf("event %q routes to unknown doctor %q", event, doc))
		}
	}
	for i, r := range t.CCRules {
		if r.Contains == "" {
			errs = append(errs, fmt.Errorf("ccRules[%d] has no contains text", i))
		}
		if _, ok := t.Doctors[r.Doctor]; !ok {
			errs = append(errs, fmt.Errorf("ccRules[%d] names unknown doctor %q", i, r.Doctor))
		}
	}
	for date, link := range t.SessionPaymentLinks {
		if !urlutil.IsValidAbsHTTPURL(link) {
			errs = append(errs, fmt.Errorf("session date %q has an invalid link", date))
		}
	}
	for _, tr := range t.Trainings {
		if tr.Level == "" || len(tr.Keywords) == 0 {
			errs = append(errs, errors.New("each training needs a level and keywords"))
		}
	}
	return errors.Join(errs...)
}

// DoctorEmail returns the address for a doctor account.
func (t *Table) DoctorEmail(name string) (string, bool) {
	d, ok := t.Doctors[name]
	if !ok || d.Email == "" {
		return "", false
	}
	return d.Email, true
}

// EventDoctor returns the doctor account that runs eventName.
func (t *Table) EventDoctor(eventName string) (string, bool) {
	d, ok := t.EventDoctors[strings.TrimSpace(eventName)]
	return d, ok
}

// PaymentLinkForEvent returns the payment link of the doctor running
// eventName, or the default link.
func (t *Table) PaymentLinkForEvent(eventName string) string {
	if doc, ok := t.EventDoctor(eventName); ok {
		if link := t.Doctors[doc].PaymentLink; link != "" {
			return link
		}
	}
	return t.DefaultPaymentLink
}

// PaymentLinkForSessionDate returns the link for a session's display date.
func (t *Table) PaymentLinkForSessionDate(date string) (string, bool) {
	link, ok := t.SessionPaymentLinks[strings.TrimSpace(date)]
	return link, ok && link != ""
}

// DoctorCC returns the doctor account and address of the first CC rule
// whose text appears in text.
func (t *Table) DoctorCC(text string) (doctor, email string, ok bool) {
	for _, r := range t.CCRules {
		if strings.Contains(text, r.Contains) {
			if e, found := t.DoctorEmail(r.Doctor); found {
				return r.Doctor, e, true
			}
		}
	}
	return "", "", false
}

// CC returns the always-copied addresses plus the matching doctor, if any.
func (t *Table) CC(text string) []string {
	cc := append([]string(nil), t.AlwaysCC...)
	if _, e, ok := t.DoctorCC(text); ok {
		cc = append(cc, e)
	}
	return cc
}

// Training finds the level whose keywords appear in trainingType, then the
// payment link and instructor for dates. Date comparison ignores ordinal
// suffixes, commas, dash style, spacing and case, and accepts containment
// in either direction.
func (t *Table) Training(trainingType, dates string) (TrainingMatch, bool) {
	nd := NormalizeDates(dates)
	for _, tr := range t.Trainings {
		if !containsAny(trainingType, tr.Keywords) {
			continue
		}
		m := TrainingMatch{Level: tr.Level, PaymentLink: tr.DefaultLink, Instructor: t.DefaultInstructor}
		for _, dl := range tr.Dates {
			if datesOverlap(nd, NormalizeDates(dl.Match)) {
				m.PaymentLink = dl.Link
				break
			}
		}
		for _, s := range tr.Sessions {
			if datesOverlap(nd, NormalizeDates(s.Dates)) {
				m.Instructor = s.Instructor
				break
			}
		}
		return m, true
	}
	return TrainingMatch{}, false
}

var (
	ordinal    = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// NormalizeDates folds a free-form date range for comparison.
func NormalizeDates(s string) string {
	s = ordinal.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "–", "-")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

func datesOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SplitCity splits the "city | event | dates" value the registration forms
// submit. Missing parts are empty.
func SplitCity(city string) (place, event, dates string) {
	parts := strings.Split(city, "|")
	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return get(0), get(1), get(2)
}
