// internal/app/features/contact/submit.go
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	contactstore "github.com/dalemusser/ekaahub/internal/app/store/contacts"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submission struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phoneNumber"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode"`
	Message             string `json:"message"`
	AcceptPrivacyPolicy any    `json:"acceptPrivacyPolicy"`
}

var submissionRules = inputval.Rules{
	{Field: "firstName", Tag: "required,ci_min=2,ci_max=50", Msg: "First name must be between 2-50 characters"},
	{Field: "lastName", Tag: "required,ci_min=2,ci_max=50", Msg: "Last name must be between 2-50 characters"},
	{Field: "email", Tag: "required,email", Msg: "Please enter a valid email address"},
	{Field: "phoneNumber", Tag: "required,ci_min=10,ci_max=15", Msg: "Phone number must be between 10-15 digits"},
	{Field: "country", Tag: "required,ci_max=50", Msg: "Country is required (at most 50 characters)"},
	{Field: "zipCode", Tag: "required,ci_max=10", Msg: "Zip code is required (at most 10 characters)"},
	{Field: "message", Tag: "required,ci_min=1", Msg: "Message is required"},
}

// boolish accepts true, false, "true" and "false".
func boolish(v any) (value, ok bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.TrimSpace(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func (s submission) validate() []apiresp.FieldError {
	errs := inputval.Default().Check(map[string]any{
		"firstName":   s.FirstName,
		"lastName":    s.LastName,
		"email":       strings.TrimSpace(s.Email),
		"phoneNumber": s.PhoneNumber,
		"country":     s.Country,
		"zipCode":     s.ZipCode,
		"message":     s.Message,
	}, submissionRules)
	if s.AcceptPrivacyPolicy == nil {
		errs = append(errs, apiresp.FieldError{Field: "acceptPrivacyPolicy", Msg: "Privacy policy selection is required"})
	} else if _, ok := boolish(s.AcceptPrivacyPolicy); !ok {
		errs = append(errs, apiresp.FieldError{Field: "acceptPrivacyPolicy", Msg: "Privacy policy must be true or false"})
	}
	return errs
}

func (s submission) contact() models.Contact {
	accepted, _ := boolish(s.AcceptPrivacyPolicy)
	return models.Contact{
		FirstName:           strings.TrimSpace(s.FirstName),
		LastName:            strings.TrimSpace(s.LastName),
		Email:               normalize.Email(s.Email),
		PhoneNumber:         strings.TrimSpace(s.PhoneNumber),
		Country:             strings.TrimSpace(s.Country),
		ZipCode:             strings.TrimSpace(s.ZipCode),
		Message:             strings.TrimSpace(s.Message),
		AcceptPrivacyPolicy: accepted,
		Status:              models.ContactPending,
	}
}

// ReferenceID is the short id quoted back to the sender: "#" and the last
// eight hex digits of the document id, uppercased.
func ReferenceID(id primitive.ObjectID) string {
	hex := id.Hex()
	return "#" + strings.ToUpper(hex[len(hex)-8:])
}

type emailStatus struct {
	AdminNotified    bool `json:"adminNotified"`
	ConfirmationSent bool `json:"confirmationSent"`
}

type receipt struct {
	ID          primitive.ObjectID `json:"id"`
	ReferenceID string             `json:"referenceId"`
	SubmittedAt time.Time          `json:"submittedAt"`
	FullName    string             `json:"fullName"`
	Email       string             `json:"email"`
	EmailStatus emailStatus        `json:"emailStatus"`
}

// HandleSubmit stores a contact-form message and queues the office
// notification and the sender's acknowledgement.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var s submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&s); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if errs := s.validate(); len(errs) > 0 {
		apiresp.ValidationFailed(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	saved, err := h.Store.Create(ctx, s.contact())
	if err != nil {
		if errors.Is(err, contactstore.ErrDuplicate) {
			apiresp.BadRequest(w, "A contact with this email already exists")
			return
		}
		h.Log.Error("create contact failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to submit your message. Please try again later.", err, h.ShowErrors)
		return
	}

	ref := ReferenceID(saved.ID)
	apiresp.Created(w, "Your message has been successfully submitted!", receipt{
		ID:          saved.ID,
		ReferenceID: ref,
		SubmittedAt: saved.CreatedAt,
		FullName:    saved.FullName(),
		Email:       saved.Email,
		EmailStatus: h.notify(r.Context(), saved, ref),
	})
}

// notify sends both emails through the task pool and waits, up to the
// short timeout, for each delivery result. A composition or delivery
// failure leaves that flag false; the submission itself already succeeded.
func (h *Handler) notify(ctx context.Context, ct models.Contact, ref string) emailStatus {
	var st emailStatus
	if h.Mailer == nil || h.Composer == nil {
		return st
	}
	var adminRes, clientRes <-chan error
	if admin, err := h.Composer.ContactAdmin(ct); err != nil {
		h.Log.Error("compose contact admin email failed", zap.Error(err))
	} else {
		adminRes, _ = h.Mailer.Dispatch(h.Tasks, admin)
	}
	if client, err := h.Composer.ContactClient(ct, ref); err != nil {
		h.Log.Error("compose contact client email failed", zap.Error(err))
	} else {
		clientRes, _ = h.Mailer.Dispatch(h.Tasks, client)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	st.AdminNotified = mailer.Delivered(ctx, adminRes)
	st.ConfirmationSent = mailer.Delivered(ctx, clientRes)
	return st
}
