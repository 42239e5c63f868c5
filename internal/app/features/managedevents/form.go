// internal/app/features/managedevents/form.go
package managedevents

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/domain/models"
)

// eventForm is a create or update body. Nil fields were not sent.
type eventForm struct {
	Event             *string `json:"event"`
	Level             *string `json:"level"`
	StartDate         *string `json:"startDate"`
	EndDate           *string `json:"endDate"`
	Location          *string `json:"location"`
	ConductedBy       *string `json:"conductedBy"`
	TotalParticipants *int    `json:"totalParticipants"`
	ProgramFees       *string `json:"programFees"`
	Status            *string `json:"status"`
}

func decodeForm(w http.ResponseWriter, r *http.Request) (eventForm, error) {
	var f eventForm
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&f)
	return f, err
}

// checkOption reports why event and level are not a valid pair from the
// option table, or "" when they are.
func checkOption(event, level string) string {
	opt, ok := models.FindEventOption(event)
	if !ok {
		return "Invalid event"
	}
	if !opt.HasLevels {
		return ""
	}
	if level == "" {
		return "Level is required for this event"
	}
	if !slices.Contains(opt.Levels, level) {
		return "Invalid level for selected event"
	}
	return ""
}

// apply merges f onto ev. problem is a client message for the first field
// that cannot be used.
func (f eventForm) apply(ev *models.ManagedEvent) (problem string) {
	parse := func(s *string, dst *time.Time) bool {
		if s == nil {
			return true
		}
		t, err := inputval.ParseISO8601(*s)
		if err != nil {
			return false
		}
		*dst = t
		return true
	}
	if !parse(f.StartDate, &ev.StartDate) || !parse(f.EndDate, &ev.EndDate) {
		return "Invalid dates"
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&ev.Event, f.Event)
	set(&ev.Level, f.Level)
	set(&ev.Location, f.Location)
	set(&ev.ConductedBy, f.ConductedBy)
	set(&ev.ProgramFees, f.ProgramFees)

	if f.TotalParticipants != nil {
		if *f.TotalParticipants < 0 {
			return "totalParticipants cannot be negative"
		}
		ev.TotalParticipants = *f.TotalParticipants
	}
	if f.Status != nil {
		ev.Status = normalize.OpenClosed(*f.Status)
	}
	if ev.Status == "" {
		ev.Status = models.StatusOpen
	}
	if !models.IsValidOpenClosed(ev.Status) {
		return ev.Status + " is not a valid status"
	}
	return ""
}
