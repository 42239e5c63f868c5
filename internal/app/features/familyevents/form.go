// internal/app/features/familyevents/form.go
package familyevents

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/domain/models"
)

// LegacyDateLayout is the display form of the optional date field.
const LegacyDateLayout = "Jan 2, 2006"

// eventForm is a create or update body. Nil fields were not sent.
type eventForm struct {
	Date           *string `json:"date"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	Location       *string `json:"location"`
	Capacity       *string `json:"capacity"`
	OrganisedBy    *string `json:"organisedby"`
	OrganiserEmail *string `json:"organiserEmail"`
	Price          *string `json:"price"`
	PaymentLink    *string `json:"paymentLink"`
	Status         *string `json:"status"`
	Facilitator    *string `json:"facilitator"`
	ExternalLink   *string `json:"externalLink"`
}

func decodeForm(w http.ResponseWriter, r *http.Request) (eventForm, error) {
	var f eventForm
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&f)
	return f, err
}

// dates parses whichever of startDate and endDate were sent. problem is a
// client message when one does not parse.
func (f eventForm) dates() (start, end *time.Time, problem string) {
	if f.StartDate != nil && strings.TrimSpace(*f.StartDate) != "" {
		t, err := inputval.ParseISO8601(*f.StartDate)
		if err != nil {
			return nil, nil, "Invalid start date format"
		}
		start = &t
	}
	if f.EndDate != nil && strings.TrimSpace(*f.EndDate) != "" {
		t, err := inputval.ParseISO8601(*f.EndDate)
		if err != nil {
			return nil, nil, "Invalid end date format"
		}
		end = &t
	}
	return start, end, ""
}

// apply copies the sent text fields onto ev.
func (f eventForm) apply(ev *models.FamilyEvent) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&ev.Date, f.Date)
	set(&ev.Location, f.Location)
	set(&ev.Capacity, f.Capacity)
	set(&ev.OrganisedBy, f.OrganisedBy)
	set(&ev.Price, f.Price)
	set(&ev.PaymentLink, f.PaymentLink)
	set(&ev.Facilitator, f.Facilitator)
	set(&ev.ExternalLink, f.ExternalLink)
	if f.OrganiserEmail != nil {
		ev.OrganiserEmail = normalize.Email(*f.OrganiserEmail)
	}
	if f.Status != nil {
		ev.Status = normalize.OpenClosed(*f.Status)
	}
	if ev.Status == "" {
		ev.Status = models.StatusOpen
	}
	ev.Event = models.FamilyConstellation
}

var eventRules = inputval.Rules{
	{Field: "location", Tag: "required,ci_min=3", Msg: "Location must be at least 3 characters"},
	{Field: "capacity", Tag: "required", Msg: "Capacity is required"},
	{Field: "organisedby", Tag: "required,ci_min=3", Msg: "Organizer name must be at least 3 characters"},
	{Field: "organiserEmail", Tag: "required,email", Msg: "Please enter a valid email"},
	{Field: "price", Tag: "required", Msg: "Price is required"},
	{Field: "paymentLink", Tag: "required,http_url", Msg: "Payment link is not a valid URL"},
	{Field: "externalLink", Tag: "omitempty,http_url", Msg: "External link is not a valid URL"},
	{Field: "status", Tag: "oneof=Open Closed", Msg: "Status must be Open or Closed"},
}

var (
	capacityPattern   = regexp.MustCompile(`^\d+\sSeats?$`)
	pricePattern      = regexp.MustCompile(`^\$\s?\d+(,\d{3})*(\.\d{2})?$`)
	legacyDatePattern = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s\d{1,2},\s\d{4}$`)
)

// validate checks a complete event. Date ordering is checked by the
// handlers since create and update differ.
func validate(ev models.FamilyEvent) []apiresp.FieldError {
	errs := inputval.Default().Check(map[string]any{
		"location":       ev.Location,
		"capacity":       ev.Capacity,
		"organisedby":    ev.OrganisedBy,
		"organiserEmail": ev.OrganiserEmail,
		"price":          ev.Price,
		"paymentLink":    ev.PaymentLink,
		"externalLink":   ev.ExternalLink,
		"status":         ev.Status,
	}, eventRules)

	has := func(field string) bool {
		for _, e := range errs {
			if e.Field == field {
				return true
			}
		}
		return false
	}
	if ev.Capacity != "" && !capacityPattern.MatchString(ev.Capacity) {
		errs = append(errs, apiresp.FieldError{Field: "capacity", Msg: ev.Capacity + ` is not a valid capacity format (e.g., "10 Seats")`})
	}
	if ev.Price != "" && !has("price") && !pricePattern.MatchString(ev.Price) {
		errs = append(errs, apiresp.FieldError{Field: "price", Msg: ev.Price + ` is not a valid price format (e.g., "$375", "$ 375", or "$375.00")`})
	}
	if ev.Date != "" && !legacyDatePattern.MatchString(ev.Date) {
		errs = append(errs, apiresp.FieldError{Field: "date", Msg: ev.Date + " is not a valid date format (MMM DD, YYYY)"})
	}
	if ev.StartDate.IsZero() {
		errs = append(errs, apiresp.FieldError{Field: "startDate", Msg: "Start date is required"})
	}
	if ev.EndDate.IsZero() {
		errs = append(errs, apiresp.FieldError{Field: "endDate", Msg: "End date is required"})
	}
	return errs
}

// withLegacyDate fills the display date from startDate when it is empty.
func withLegacyDate(ev models.FamilyEvent) models.FamilyEvent {
	if ev.Date == "" && !ev.StartDate.IsZero() {
		ev.Date = ev.StartDate.Format(LegacyDateLayout)
	}
	return ev
}
