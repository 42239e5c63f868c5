// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// MaxLimit caps caller-supplied page sizes.
const MaxLimit = 100

// MaxPage caps caller-supplied page numbers so Skip cannot overflow.
const MaxPage = 1_000_000

// Params is a normalized page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Skip returns the number of documents preceding the page.
func (p Params) Skip() int64 {
	page := min(max(p.Page, 1), MaxPage)
	return int64(page-1) * int64(max(p.Limit, 0))
}

// Parse reads "page" and "limit" from the query string. Missing, malformed
// or out-of-range values are clamped rather than rejected.
func Parse(r *http.Request) Params {
	return Params{
		Page:  clampInt(query.Get(r, "page"), 1, 1, MaxPage),
		Limit: clampInt(query.Get(r, "limit"), DefaultLimit, 1, MaxLimit),
	}
}

// clampInt parses s and bounds it to [lo, hi]. hi <= 0 means no upper bound.
// Integers too large for an int clamp to the nearer bound.
func clampInt(s string, def, lo, hi int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") || hi <= 0 {
			return lo
		}
		return hi
	}
	if err != nil {
		return def
	}
	if n < lo {
		return lo
	}
	if hi > 0 && n > hi {
		return hi
	}
	return n
}

// Pagination is the page block of a list response envelope.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Compute derives the page block for p given the unpaginated match count.
func Compute(p Params, total int64) Pagination {
	limit := p.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	pg := Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		Limit:       limit,
	}
	if p.Page < totalPages {
		next := p.Page + 1
		pg.NextPage = &next
		pg.HasNextPage = true
	}
	if p.Page > 1 {
		prev := p.Page - 1
		pg.PrevPage = &prev
		pg.HasPrevPage = true
	}
	return pg
}

// FindOptions returns Find options for the page with the given sort. An
// ascending _id tie-break is appended so equal sort keys keep insertion
// order whichever way the primary key sorts.
func FindOptions(p Params, sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(withIDTieBreak(sort)).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
}

func withIDTieBreak(sort bson.D) bson.D {
	for _, e := range sort {
		if e.Key == "_id" {
			return sort
		}
	}
	out := make(bson.D, 0, len(sort)+1)
	out = append(out, sort...)
	return append(out, bson.E{Key: "_id", Value: 1})
}

// NewestFirst is the default list order.
var NewestFirst = bson.D{{Key: "createdAt", Value: -1}}

// ParseSort reads "sortBy" and "sortOrder". sortBy must be one of allowed
// (a whitelist of stored field names); otherwise def is returned. sortOrder
// "asc" sorts ascending, anything else descending.
func ParseSort(r *http.Request, allowed []string, def bson.D) bson.D {
	field := strings.TrimSpace(query.Get(r, "sortBy"))
	if field == "" {
		return def
	}
	for _, a := range allowed {
		if a == field {
			dir := -1
			if strings.EqualFold(query.Get(r, "sortOrder"), "asc") {
				dir = 1
			}
			return bson.D{{Key: field, Value: dir}}
		}
	}
	return def
}
