// internal/app/features/openevents/aggregate.go
package openevents

import (
	"math"
	"sort"
	"time"

	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program types reported in the feed.
const (
	TypeFamily       = "family"
	TypeHypnotherapy = "hypnotherapy"
	TypeDecode       = "decode"
)

// Item is one entry in the merged feed. Program events and family events
// share the shape; fields that only one source has are left empty.
type Item struct {
	ID           primitive.ObjectID `json:"_id"`
	ProgramType  string             `json:"programType"`
	ProgramTitle string             `json:"programTitle,omitempty"`

	Event          string    `json:"event"`
	EventName      string    `json:"eventName,omitempty"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Location       string    `json:"location"`
	OrganisedBy    string    `json:"organisedby"`
	Organiser      string    `json:"organiser,omitempty"`
	OrganiserEmail string    `json:"organiserEmail,omitempty"`
	OrganizerEmail string    `json:"organizerEmail,omitempty"`
	Price          string    `json:"price,omitempty"`
	PaymentLink    string    `json:"paymentLink,omitempty"`
	Capacity       string    `json:"capacity,omitempty"`
	Facilitator    string    `json:"facilitator,omitempty"`
	ExternalLink   string    `json:"externalLink,omitempty"`
	Status         string    `json:"status"`

	// Duration is in whole hours, rounded.
	Duration           int    `json:"duration"`
	FormattedStartDate string `json:"formattedStartDate"`
	FormattedStartTime string `json:"formattedStartTime"`
	FormattedEndTime   string `json:"formattedEndTime"`
	Date               string `json:"date"`
}

// ProgramSet is the Open programs of one catalog.
type ProgramSet struct {
	Type     string
	Programs []models.Program
}

const (
	dateLayout = "Jan 2, 2006"
	timeLayout = "03:04 PM"
)

// Aggregate merges family events and program events into one feed sorted
// by start. An event is kept when it starts today or later, or when it is
// running today. "Today" is midnight of now in now's location, and the
// display fields are formatted in that location.
//
// Callers pass only Open family events and Open programs; closed events
// embedded in Open programs are skipped here.
func Aggregate(now time.Time, family []models.FamilyEvent, sets ...ProgramSet) []Item {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	items := []Item{}
	for _, fe := range family {
		if !current(fe.StartDate, fe.EndDate, today) {
			continue
		}
		items = append(items, Item{
			ID:             fe.ID,
			ProgramType:    TypeFamily,
			Event:          fe.Event,
			StartDate:      fe.StartDate,
			EndDate:        fe.EndDate,
			Location:       fe.Location,
			OrganisedBy:    fe.OrganisedBy,
			OrganiserEmail: fe.OrganiserEmail,
			Price:          fe.Price,
			PaymentLink:    fe.PaymentLink,
			Capacity:       fe.Capacity,
			Facilitator:    fe.Facilitator,
			ExternalLink:   fe.ExternalLink,
			Status:         fe.Status,
		})
	}

	for _, set := range sets {
		for _, p := range set.Programs {
			for _, ev := range p.UpcomingEvents {
				if ev.Status == models.StatusClosed || !current(ev.StartDate, ev.EndDate, today) {
					continue
				}
				items = append(items, Item{
					ID:             ev.ID,
					ProgramType:    set.Type,
					ProgramTitle:   p.Title,
					Event:          ev.EventName,
					EventName:      ev.EventName,
					StartDate:      ev.StartDate,
					EndDate:        ev.EndDate,
					Location:       ev.Location,
					OrganisedBy:    ev.Organiser,
					Organiser:      ev.Organiser,
					OrganizerEmail: ev.OrganizerEmail,
					Price:          ev.Price,
					PaymentLink:    ev.PaymentLink,
					Status:         ev.Status,
				})
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate.Before(items[j].StartDate)
	})

	for i := range items {
		it := &items[i]
		start, end := it.StartDate.In(loc), it.EndDate.In(loc)
		it.Duration = int(math.Round(it.EndDate.Sub(it.StartDate).Hours()))
		it.FormattedStartDate = start.Format(dateLayout)
		it.FormattedStartTime = start.Format(timeLayout)
		it.FormattedEndTime = end.Format(timeLayout)
		it.Date = it.FormattedStartDate
	}
	return items
}

// current reports whether an event is upcoming or in progress relative to
// today. Events without both dates are never current.
func current(start, end, today time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	upcoming := !start.Before(today)
	running := !start.After(today) && !end.Before(today)
	return upcoming || running
}
