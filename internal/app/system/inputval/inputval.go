// Package inputval validates request fields against declarative rule tables.
//
// A rule table is a list of (field, validator tag, message) triples checked
// with go-playground/validator against raw decoded values. Besides the
// built-in tags the validator knows these:
//
//	phone      7 to 15 digits, optionally with + ( ) - . and spaces
//	accepted   boolean true
//	ci_min=N   at least N characters after trimming
//	ci_max=N   at most N characters after trimming
//	html_min=N at least N visible characters once markup is stripped
//	iso8601    a YYYY-MM-DD day or an RFC 3339 instant
package inputval

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/htmlsanitize"
	"github.com/go-playground/validator/v10"
)

// Rule is one check on one field.
type Rule struct {
	Field string
	Tag   string
	Msg   string
}

// Rules is an ordered rule table.
type Rules []Rule

// Validator runs rule tables. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

var phoneChars = regexp.MustCompile(`^\+?[0-9 ().\-]+$`)

// New returns a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("phone", isPhone)
	_ = v.RegisterValidation("accepted", isAccepted)
	_ = v.RegisterValidation("ci_min", trimmedMin)
	_ = v.RegisterValidation("ci_max", trimmedMax)
	_ = v.RegisterValidation("html_min", htmlMin)
	_ = v.RegisterValidation("iso8601", isISO8601)
	return &Validator{v: v}
}

var std = New()

// Default returns the shared Validator.
func Default() *Validator { return std }

// Check runs every rule against values and returns the failures in rule
// order. A field missing from values is checked as nil, so only tags
// starting with omitempty let it through.
func (val *Validator) Check(values map[string]any, rules Rules) []apiresp.FieldError {
	var errs []apiresp.FieldError
	failed := make(map[string]bool)
	for _, r := range rules {
		if failed[r.Field] {
			continue
		}
		if err := val.v.Var(values[r.Field], r.Tag); err != nil {
			failed[r.Field] = true
			errs = append(errs, apiresp.FieldError{Field: r.Field, Msg: r.Msg})
		}
	}
	return errs
}

// Var checks a single value against a tag.
func (val *Validator) Var(value any, tag string) bool {
	return val.v.Var(value, tag) == nil
}

// IsValidEmail reports whether s is a bare email address.
func IsValidEmail(s string) bool {
	return std.Var(strings.TrimSpace(s), "required,email")
}

// IsValidURL reports whether s is an absolute http(s) URL.
func IsValidURL(s string) bool {
	return std.Var(s, "required,http_url")
}

func isPhone(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	s := strings.TrimSpace(fl.Field().String())
	if !phoneChars.MatchString(s) {
		return false
	}
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= 7 && n <= 15
}

func isAccepted(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() == reflect.Bool && f.Bool()
}

func trimmedLen(fl validator.FieldLevel) (int, int, bool) {
	if fl.Field().Kind() != reflect.String {
		return 0, 0, false
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return 0, 0, false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())), limit, true
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedLen(fl)
	return ok && n >= limit
}

func trimmedMax(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedLen(fl)
	return ok && n <= limit
}

func htmlMin(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return htmlsanitize.TextLen(fl.Field().String()) >= limit
}

func isISO8601(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		if t, ok := f.Interface().(time.Time); ok {
			return !t.IsZero()
		}
		return false
	}
	_, err := ParseISO8601(f.String())
	return err == nil
}

// ParseISO8601 accepts a YYYY-MM-DD day or an RFC 3339 instant (with or
// without seconds fraction or zone).
func ParseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range []string{
		"2006-01-02",
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
