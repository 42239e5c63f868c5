// internal/app/features/registrations/fields.go
package registrations

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/csvexport"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/domain/models"
)

type kind int

const (
	kindText kind = iota
	kindBool
	kindDate
	kindList
)

// field maps one request key onto models.Registration.
type field struct {
	kind kind
	get  func(r *models.Registration) string
	set  func(r *models.Registration, v any)
}

func text(ptr func(r *models.Registration) *string) field {
	return field{
		kind: kindText,
		get:  func(r *models.Registration) string { return *ptr(r) },
		set: func(r *models.Registration, v any) {
			if s, ok := v.(string); ok {
				*ptr(r) = s
			}
		},
	}
}

func flag(ptr func(r *models.Registration) **bool) field {
	return field{
		kind: kindBool,
		get:  func(r *models.Registration) string { return csvexport.Bool(*ptr(r)) },
		set: func(r *models.Registration, v any) {
			if b, ok := v.(bool); ok {
				*ptr(r) = &b
			}
		},
	}
}

var fields = map[string]field{
	"firstName":         text(func(r *models.Registration) *string { return &r.FirstName }),
	"middleName":        text(func(r *models.Registration) *string { return &r.MiddleName }),
	"lastName":          text(func(r *models.Registration) *string { return &r.LastName }),
	"nameAsCertificate": text(func(r *models.Registration) *string { return &r.NameAsCertificate }),
	"fullName":          text(func(r *models.Registration) *string { return &r.FullName }),
	"name":              text(func(r *models.Registration) *string { return &r.Name }),
	"email":             text(func(r *models.Registration) *string { return &r.Email }),
	"mobileNo":          text(func(r *models.Registration) *string { return &r.MobileNo }),
	"TelNo":             text(func(r *models.Registration) *string { return &r.TelNo }),
	"office":            text(func(r *models.Registration) *string { return &r.Office }),
	"phone":             text(func(r *models.Registration) *string { return &r.Phone }),
	"currentAddress":    text(func(r *models.Registration) *string { return &r.CurrentAddress }),
	"permanenetAddress": text(func(r *models.Registration) *string { return &r.PermanentAddress }),
	"city":              text(func(r *models.Registration) *string { return &r.City }),
	"state":             text(func(r *models.Registration) *string { return &r.State }),
	"country":           text(func(r *models.Registration) *string { return &r.Country }),
	"postalCode":        text(func(r *models.Registration) *string { return &r.PostalCode }),
	"gender":            text(func(r *models.Registration) *string { return &r.Gender }),
	"occupation":        text(func(r *models.Registration) *string { return &r.Occupation }),
	"timeslot":          text(func(r *models.Registration) *string { return &r.Timeslot }),
	"venue":             text(func(r *models.Registration) *string { return &r.Venue }),
	"courseDetailDate":  text(func(r *models.Registration) *string { return &r.CourseDetailDate }),
	"courseDetailTime":  text(func(r *models.Registration) *string { return &r.CourseDetailTime }),
	"courseDetailVenue": text(func(r *models.Registration) *string { return &r.CourseDetailVenue }),
	"levelName":         text(func(r *models.Registration) *string { return &r.LevelName }),
	"level":             text(func(r *models.Registration) *string { return &r.Level }),
	"hearAbout":         text(func(r *models.Registration) *string { return &r.HearAbout }),
	"sessionId":         text(func(r *models.Registration) *string { return &r.SessionID }),
	"event":             text(func(r *models.Registration) *string { return &r.Event }),
	"date":              text(func(r *models.Registration) *string { return &r.Date }),
	"location":          text(func(r *models.Registration) *string { return &r.Location }),
	"organisedBy":       text(func(r *models.Registration) *string { return &r.OrganisedBy }),
	"organiserEmail":    text(func(r *models.Registration) *string { return &r.OrganiserEmail }),
	"connectedWith":     text(func(r *models.Registration) *string { return &r.ConnectedWith }),
	"status":            text(func(r *models.Registration) *string { return &r.Status }),
	"profileImage":      text(func(r *models.Registration) *string { return &r.ProfileImage }),
	"idPhotofront":      text(func(r *models.Registration) *string { return &r.IDPhotoFront }),
	"idphotoback":       text(func(r *models.Registration) *string { return &r.IDPhotoBack }),

	"isSameAddress":            flag(func(r *models.Registration) **bool { return &r.IsSameAddress }),
	"communicationPreferences": flag(func(r *models.Registration) **bool { return &r.CommunicationPreferences }),
	"termsandcondition":        flag(func(r *models.Registration) **bool { return &r.TermsAndCondition }),

	"dob": {
		kind: kindDate,
		get:  func(r *models.Registration) string { return csvexport.TimePtr(r.DOB) },
		set: func(r *models.Registration, v any) {
			if s, ok := v.(string); ok {
				if t, err := inputval.ParseISO8601(s); err == nil {
					r.DOB = &t
				}
			}
		},
	},
	"selectedTrainings": {
		kind: kindList,
		get:  func(r *models.Registration) string { return strings.Join(r.SelectedTrainings, "; ") },
		set: func(r *models.Registration, v any) {
			if l, ok := v.([]string); ok {
				r.SelectedTrainings = l
			}
		},
	},
}

// valueOf renders the named field of r for CSV export. It also knows the
// stored-only keys _id, createdAt, updatedAt and the meta fields.
func valueOf(r *models.Registration, key string) string {
	switch key {
	case "_id":
		return r.ID.Hex()
	case "createdAt":
		return csvexport.Time(r.CreatedAt)
	case "updatedAt":
		return csvexport.TimePtr(r.UpdatedAt)
	case "status":
		if r.Status == "" {
			return "pending"
		}
		return r.Status
	case "meta.ip":
		if r.Meta != nil {
			return r.Meta.IP
		}
		return ""
	case "meta.userAgent":
		if r.Meta != nil {
			return r.Meta.UserAgent
		}
		return ""
	}
	if f, ok := fields[key]; ok {
		return f.get(r)
	}
	return ""
}

// coerce converts a decoded request value to the field's kind. Values that
// cannot be converted are returned as text so the rule table reports them.
func coerce(k kind, v any) any {
	switch k {
	case kindBool:
		return coerceBool(v)
	case kindList:
		return coerceList(v)
	default:
		return coerceText(v)
	}
}

func coerceText(v any) any {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case []string:
		if len(x) > 0 {
			return strings.TrimSpace(x[0])
		}
		return ""
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func coerceBool(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case []string:
		if len(x) == 0 {
			return ""
		}
		return coerceBool(x[len(x)-1])
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "on", "1", "yes":
			return true
		case "false", "off", "0", "no":
			return false
		}
		return strings.TrimSpace(x)
	}
	return v
}

func coerceList(v any) any {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch x := v.(type) {
	case []string:
		if len(x) == 1 && strings.HasPrefix(strings.TrimSpace(x[0]), "[") {
			return coerceList(x[0])
		}
		for _, s := range x {
			add(s)
		}
	case []any:
		for _, e := range x {
			add(fmt.Sprint(e))
		}
	case string:
		s := strings.TrimSpace(x)
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return coerceList(list)
			}
		}
		add(s)
	}
	return out
}
