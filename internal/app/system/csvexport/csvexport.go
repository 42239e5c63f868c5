// internal/app/system/csvexport/csvexport.go
package csvexport

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
)

// TimeLayout is how instants are written: RFC 3339 in UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NoRecordsMessage is returned with the 404 for an empty export.
const NoRecordsMessage = "No records found for the selected criteria"

// Encode renders header and rows as CSV. A field is quoted only when it
// contains a double quote, comma, CR or LF; embedded quotes are doubled.
// Lines are joined with CRLF and there is no trailing line break.
func Encode(header []string, rows [][]string) []byte {
	var b strings.Builder
	writeLine(&b, header)
	for _, row := range rows {
		b.WriteString("\r\n")
		writeLine(&b, row)
	}
	return []byte(b.String())
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
}

// Escape quotes a single field if it needs it.
func Escape(f string) string {
	if !strings.ContainsAny(f, "\",\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// Filename names an export for entity. When the range has bounds the days
// are appended so repeated downloads stay distinguishable.
func Filename(entity string, rg search.Range) string {
	switch {
	case rg.From != nil && rg.To != nil:
		return entity + "-" + rg.From.Format(search.DayLayout) + "_to_" + rg.To.Format(search.DayLayout) + ".csv"
	case rg.From != nil:
		return entity + "-from-" + rg.From.Format(search.DayLayout) + ".csv"
	case rg.To != nil:
		return entity + "-until-" + rg.To.Format(search.DayLayout) + ".csv"
	}
	return entity + ".csv"
}

// Time formats t for a cell; the zero time is an empty cell.
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// TimePtr is Time for optional instants.
func TimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Time(*t)
}

// Bool formats an optional flag; nil is an empty cell.
func Bool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

// Send writes the export as an attachment. With no rows it answers 404
// instead of sending a header-only file.
func Send(w http.ResponseWriter, filename string, header []string, rows [][]string) {
	if len(rows) == 0 {
		apiresp.NotFound(w, NoRecordsMessage)
		return
	}
	body := Encode(header, rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
