// internal/app/features/registrations/export.go
package registrations

import (
	"context"
	"net/http"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/csvexport"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeExport returns the CSV download endpoint for d. It takes the list
// filters without paging and answers 404 when nothing matches.
func (h *Handler) ServeExport(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, rg, err := d.filter(r)
		if err != nil {
			apiresp.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
		defer cancel()

		regs, err := h.store(d).Export(ctx, filter)
		if err != nil {
			h.Log.Error("export registrations failed", zap.String("program", d.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to generate CSV export", err, h.ShowErrors)
			return
		}
		if len(regs) == 0 {
			apiresp.NotFound(w, csvexport.NoRecordsMessage)
			return
		}

		header := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			header[i] = c.Header
		}
		rows := make([][]string, 0, len(regs))
		for i := range regs {
			row := make([]string, len(d.Columns))
			for j, c := range d.Columns {
				row[j] = valueOf(&regs[i], c.Key)
			}
			rows = append(rows, row)
		}
		csvexport.Send(w, csvexport.Filename(d.Entity, rg), header, rows)
	}
}
