// internal/app/features/registrations/session.go
package registrations

import (
	"context"
	"errors"
	"strings"

	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	managedeventstore "github.com/dalemusser/ekaahub/internal/app/store/managedevents"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionDateLayout matches the display dates used by the session payment
// links in the routing table.
const sessionDateLayout = "Jan 2, 2006"

var errSessionUnavailable = errors.New("session not found or closed")

// applySession looks reg.SessionID up in the managed events first, then the
// family events, and copies the canonical event details onto reg. Client
// supplied event details are never trusted.
func (h *Handler) applySession(ctx context.Context, reg *models.Registration) error {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(reg.SessionID))
	if err != nil {
		return errSessionUnavailable
	}

	me, err := h.Managed.GetOpen(ctx, id)
	switch {
	case err == nil:
		reg.Event = me.Event
		if me.Level != "" {
			reg.Event = me.Event + " - " + me.Level
		}
		reg.Date = me.StartDate.Format(sessionDateLayout)
		reg.Location = me.Location
		reg.OrganisedBy = me.ConductedBy
		if email, ok := h.Routing.DoctorEmail(me.ConductedBy); ok {
			reg.OrganiserEmail = email
		}
		reg.SessionID = id.Hex()
		return nil
	case !errors.Is(err, managedeventstore.ErrNotFound):
		return err
	}

	fe, err := h.Family.GetOpen(ctx, id)
	if errors.Is(err, familyeventstore.ErrNotFound) {
		return errSessionUnavailable
	}
	if err != nil {
		return err
	}
	reg.Event = fe.Event
	reg.Date = fe.Date
	if reg.Date == "" {
		reg.Date = fe.StartDate.Format(sessionDateLayout)
	}
	reg.Location = fe.Location
	reg.OrganisedBy = fe.OrganisedBy
	reg.OrganiserEmail = fe.OrganiserEmail
	reg.SessionID = id.Hex()
	return nil
}
