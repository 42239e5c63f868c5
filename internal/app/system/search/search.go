// internal/app/system/search/search.go
package search

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayLayout is the calendar-day format accepted in date-range queries and
// used in export filenames.
const DayLayout = "2006-01-02"

// ErrBadDate is returned when a date-range bound cannot be parsed.
var ErrBadDate = errors.New("invalid date format, use YYYY-MM-DD")

// Contains builds a case-insensitive substring match for term OR-ed across
// fields. Regex metacharacters in term are matched literally. It returns nil
// when term is blank so callers can pass the result straight to All.
func Contains(term string, fields ...string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: rx})
	}
	return bson.M{"$or": or}
}

// Eq returns {field: value}, or nil when value is blank.
func Eq(field, value string) bson.M {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return bson.M{field: value}
}

// All intersects the non-nil filters. Zero filters yield an empty match-all
// document; a single filter is returned as is.
func All(parts ...bson.M) bson.M {
	var kept []bson.M
	for _, p := range parts {
		if len(p) > 0 {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return bson.M{}
	case 1:
		return kept[0]
	}
	and := make(bson.A, 0, len(kept))
	for _, p := range kept {
		and = append(and, p)
	}
	return bson.M{"$and": and}
}

// Range is an inclusive instant range. Either bound may be nil.
type Range struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither bound is set.
func (rg Range) IsZero() bool { return rg.From == nil && rg.To == nil }

// Filter returns the range as a filter on field, or nil when unbounded.
func (rg Range) Filter(field string) bson.M {
	if rg.IsZero() {
		return nil
	}
	cond := bson.M{}
	if rg.From != nil {
		cond["$gte"] = *rg.From
	}
	if rg.To != nil {
		cond["$lte"] = *rg.To
	}
	return bson.M{field: cond}
}

// ParseRange reads "startDate" and "endDate" from the query string. The
// lower bound starts at midnight of its day; the upper bound is moved to
// 23:59:59.999 of its day so the whole end day is included.
func ParseRange(r *http.Request) (Range, error) {
	return ParseRangeValues(query.Get(r, "startDate"), query.Get(r, "endDate"))
}

// ParseRangeValues is ParseRange over raw values.
func ParseRangeValues(start, end string) (Range, error) {
	var rg Range
	if s := strings.TrimSpace(start); s != "" {
		t, err := ParseDay(s)
		if err != nil {
			return Range{}, err
		}
		from := StartOfDay(t)
		rg.From = &from
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := ParseDay(s)
		if err != nil {
			return Range{}, err
		}
		to := EndOfDay(t)
		rg.To = &to
	}
	return rg, nil
}

// ParseDay accepts a YYYY-MM-DD day or a full RFC 3339 instant.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrBadDate
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 on t's day in its own location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
