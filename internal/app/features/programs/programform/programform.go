// Package programform decodes program catalog bodies.
//
// A program arrives either as JSON, with list fields as native arrays, or as
// a multipart form carrying the thumbnail, where cardPoints,
// learningSections and upcomingEvents are JSON strings. Decode turns both
// into one Payload; Apply normalizes and validates the fields onto a
// models.Program.
package programform

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transport says how the body was encoded.
type Transport int

const (
	JSON Transport = iota
	Multipart
)

func (t Transport) String() string {
	if t == Multipart {
		return "multipart"
	}
	return "json"
}

// ErrBadBody wraps every decode failure.
var ErrBadBody = errors.New("invalid program body")

const maxJSONBody = 2 << 20

// Payload is a decoded program body.
type Payload struct {
	Transport Transport
	Fields    Fields

	// Thumbnail is the uploaded file, multipart only.
	Thumbnail *multipart.FileHeader
}

// Fields holds the submitted program fields. A nil field was not sent and
// leaves the stored value alone on update.
type Fields struct {
	Title            *string    `json:"title"`
	Subtitle         *string    `json:"subtitle"`
	Duration         *string    `json:"duration"`
	VideoURL         *string    `json:"videoUrl"`
	Status           *string    `json:"status"`
	CardPoints       *[]string  `json:"cardPoints"`
	LearningSections *[]Section `json:"learningSections"`
	UpcomingEvents   *[]Event   `json:"upcomingEvents"`
}

// Section is a learning section as submitted. Points is the legacy list
// form of Content.
type Section struct {
	ID      string   `json:"_id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Points  []string `json:"points,omitempty"`
}

// Event is an upcoming event as submitted. Date is the legacy single
// instant that predates start and end dates.
type Event struct {
	ID             string `json:"_id,omitempty"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Date           string `json:"date,omitempty"`
	EventName      string `json:"eventName"`
	Location       string `json:"location"`
	Organiser      string `json:"organiser"`
	OrganizerEmail string `json:"organizerEmail"`
	Price          string `json:"price"`
	PaymentLink    string `json:"paymentLink"`
	Status         string `json:"status"`
}

func (e Event) empty() bool {
	for _, v := range []string{e.StartDate, e.EndDate, e.EventName, e.Location, e.Organiser, e.Price, e.PaymentLink} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Decode reads the request body into a Payload.
func Decode(w http.ResponseWriter, r *http.Request) (Payload, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "multipart/form-data":
		return decodeMultipart(w, r)
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		f, err := fromForm(r.PostForm)
		return Payload{Transport: Multipart, Fields: f}, err
	default:
		var f Fields
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
		if err := dec.Decode(&f); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		return Payload{Transport: JSON, Fields: f}, nil
	}
}

func decodeMultipart(w http.ResponseWriter, r *http.Request) (Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxImageBytes+maxJSONBody)
	if err := r.ParseMultipartForm(uploads.MaxImageBytes + maxJSONBody); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	f, err := fromForm(r.MultipartForm.Value)
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Transport: Multipart, Fields: f}
	if fhs := r.MultipartForm.File["thumbnail"]; len(fhs) > 0 {
		p.Thumbnail = fhs[0]
	}
	return p, nil
}

func fromForm(form map[string][]string) (Fields, error) {
	var f Fields
	str := func(key string) *string {
		vals, ok := form[key]
		if !ok || len(vals) == 0 {
			return nil
		}
		s := vals[len(vals)-1]
		return &s
	}
	f.Title = str("title")
	f.Subtitle = str("subtitle")
	f.Duration = str("duration")
	f.VideoURL = str("videoUrl")
	f.Status = str("status")

	if vals, ok := form["cardPoints"]; ok {
		points, err := formList[string](vals, "cardPoints")
		if err != nil {
			return f, err
		}
		f.CardPoints = &points
	}
	if vals, ok := form["learningSections"]; ok {
		secs, err := formList[Section](vals, "learningSections")
		if err != nil {
			return f, err
		}
		f.LearningSections = &secs
	}
	if vals, ok := form["upcomingEvents"]; ok {
		evs, err := formList[Event](vals, "upcomingEvents")
		if err != nil {
			return f, err
		}
		f.UpcomingEvents = &evs
	}
	return f, nil
}

// formList parses a form list field. The usual shape is one JSON array
// string; repeated plain values are accepted for string lists.
func formList[T any](vals []string, key string) ([]T, error) {
	out := []T{}
	if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
		if err := json.Unmarshal([]byte(vals[0]), &out); err != nil {
			return nil, fmt.Errorf("%w: %s is not a valid JSON array", ErrBadBody, key)
		}
		return out, nil
	}
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			continue
		}
		var item T
		if s, ok := any(&item).(*string); ok {
			*s = v
		} else if err := json.Unmarshal([]byte(v), &item); err != nil {
			return nil, fmt.Errorf("%w: %s is not valid JSON", ErrBadBody, key)
		}
		out = append(out, item)
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Normalize + validate                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

var pricePattern = regexp.MustCompile(`^\$?\d+(\.\d{1,2})?$`)

// legacyDuration is the length given to events submitted with only a date.
const legacyDuration = 2 * time.Hour

var programRules = inputval.Rules{
	{Field: "title", Tag: "required,ci_min=5", Msg: "Title must be at least 5 characters"},
	{Field: "subtitle", Tag: "required,ci_min=5", Msg: "Subtitle must be at least 5 characters"},
	{Field: "duration", Tag: "required,ci_min=3", Msg: "Duration must be at least 3 characters"},
	{Field: "videoUrl", Tag: "omitempty,http_url", Msg: "Video URL is not a valid URL"},
	{Field: "status", Tag: "oneof=Open Closed", Msg: "Status must be Open or Closed"},
}

var sectionRules = inputval.Rules{
	{Field: "title", Tag: "required,ci_min=5", Msg: "Section title must be at least 5 characters"},
	{Field: "content", Tag: "required,html_min=10", Msg: "Content must be at least 10 characters (excluding HTML)"},
}

var eventRules = inputval.Rules{
	{Field: "eventName", Tag: "required,ci_min=5", Msg: "Event name must be at least 5 characters"},
	{Field: "location", Tag: "required,ci_min=3", Msg: "Location must be at least 3 characters"},
	{Field: "organiser", Tag: "required,ci_min=3", Msg: "Organizer name must be at least 3 characters"},
	{Field: "organizerEmail", Tag: "omitempty,email", Msg: "Organizer email is not valid"},
	{Field: "paymentLink", Tag: "required,http_url", Msg: "Payment link must be a valid URL"},
	{Field: "status", Tag: "oneof=Open Closed", Msg: "Event status must be Open or Closed"},
}

// Apply writes the present fields onto p, normalizing as it goes, then
// validates the whole program. p is modified even when errors are
// returned.
func (f Fields) Apply(p *models.Program) []apiresp.FieldError {
	var errs []apiresp.FieldError

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Title, f.Title)
	set(&p.Subtitle, f.Subtitle)
	set(&p.Duration, f.Duration)
	set(&p.VideoURL, f.VideoURL)
	if f.Status != nil {
		p.Status = normalize.OpenClosed(*f.Status)
	}
	if p.Status == "" {
		p.Status = models.StatusOpen
	}

	if f.CardPoints != nil {
		p.CardPoints = make([]string, 0, len(*f.CardPoints))
		for _, cp := range *f.CardPoints {
			p.CardPoints = append(p.CardPoints, htmlsanitize.Sanitize(strings.TrimSpace(cp)))
		}
	}
	if f.LearningSections != nil {
		p.LearningSections = make([]models.LearningSection, 0, len(*f.LearningSections))
		for _, s := range *f.LearningSections {
			p.LearningSections = append(p.LearningSections, s.toModel())
		}
	}
	// Events with an unparseable date. Their missing-date errors from
	// Validate are dropped in favor of the parse error.
	badDates := map[string]bool{}
	if f.UpcomingEvents != nil {
		p.UpcomingEvents = make([]models.ProgramEvent, 0, len(*f.UpcomingEvents))
		for _, e := range *f.UpcomingEvents {
			if e.empty() {
				continue
			}
			prefix := fmt.Sprintf("upcomingEvents[%d]", len(p.UpcomingEvents))
			ev, fe := e.toModel(prefix)
			if len(fe) > 0 {
				badDates[prefix] = true
			}
			errs = append(errs, fe...)
			p.UpcomingEvents = append(p.UpcomingEvents, ev)
		}
	}
	if p.CardPoints == nil {
		p.CardPoints = []string{}
	}
	if p.LearningSections == nil {
		p.LearningSections = []models.LearningSection{}
	}
	if p.UpcomingEvents == nil {
		p.UpcomingEvents = []models.ProgramEvent{}
	}

	for _, fe := range Validate(*p) {
		if i := strings.LastIndex(fe.Field, "."); i > 0 && badDates[fe.Field[:i]] {
			switch fe.Field[i+1:] {
			case "startDate", "endDate":
				continue
			}
		}
		errs = append(errs, fe)
	}
	return errs
}

func (s Section) toModel() models.LearningSection {
	content := s.Content
	if strings.TrimSpace(content) == "" && len(s.Points) > 0 {
		content = htmlsanitize.BulletList(s.Points)
	}
	id, _ := primitive.ObjectIDFromHex(s.ID)
	return models.LearningSection{
		ID:      id,
		Title:   strings.TrimSpace(s.Title),
		Content: htmlsanitize.Sanitize(content),
	}
}

func (e Event) toModel(prefix string) (models.ProgramEvent, []apiresp.FieldError) {
	var errs []apiresp.FieldError
	id, _ := primitive.ObjectIDFromHex(e.ID)
	ev := models.ProgramEvent{
		ID:             id,
		EventName:      strings.TrimSpace(e.EventName),
		Location:       strings.TrimSpace(e.Location),
		Organiser:      strings.TrimSpace(e.Organiser),
		OrganizerEmail: normalize.Email(e.OrganizerEmail),
		Price:          strings.TrimSpace(e.Price),
		PaymentLink:    strings.TrimSpace(e.PaymentLink),
		Status:         normalize.OpenClosed(e.Status),
	}
	if ev.Status == "" {
		ev.Status = models.StatusOpen
	}

	start, end := strings.TrimSpace(e.StartDate), strings.TrimSpace(e.EndDate)
	if start == "" && strings.TrimSpace(e.Date) != "" {
		t, err := inputval.ParseISO8601(e.Date)
		if err != nil {
			return ev, append(errs, apiresp.FieldError{Field: prefix + ".date", Msg: "Date is not a valid date"})
		}
		ev.StartDate, ev.EndDate = t, t.Add(legacyDuration)
		return ev, nil
	}
	if start != "" {
		t, err := inputval.ParseISO8601(start)
		if err != nil {
			errs = append(errs, apiresp.FieldError{Field: prefix + ".startDate", Msg: "Start date is not a valid date"})
		}
		ev.StartDate = t
	}
	if end != "" {
		t, err := inputval.ParseISO8601(end)
		if err != nil {
			errs = append(errs, apiresp.FieldError{Field: prefix + ".endDate", Msg: "End date is not a valid date"})
		}
		ev.EndDate = t
	}
	return ev, errs
}

// Validate checks a complete program.
func Validate(p models.Program) []apiresp.FieldError {
	v := inputval.Default()
	errs := v.Check(map[string]any{
		"title":    p.Title,
		"subtitle": p.Subtitle,
		"duration": p.Duration,
		"videoUrl": p.VideoURL,
		"status":   p.Status,
	}, programRules)

	for i, cp := range p.CardPoints {
		if htmlsanitize.TextLen(cp) < 5 {
			errs = append(errs, apiresp.FieldError{
				Field: fmt.Sprintf("cardPoints[%d]", i),
				Msg:   "Card point must be at least 5 characters (excluding HTML)",
			})
		}
	}
	for i, s := range p.LearningSections {
		for _, fe := range v.Check(map[string]any{"title": s.Title, "content": s.Content}, sectionRules) {
			fe.Field = fmt.Sprintf("learningSections[%d].%s", i, fe.Field)
			errs = append(errs, fe)
		}
	}
	for i, e := range p.UpcomingEvents {
		prefix := fmt.Sprintf("upcomingEvents[%d].", i)
		for _, fe := range v.Check(map[string]any{
			"eventName":      e.EventName,
			"location":       e.Location,
			"organiser":      e.Organiser,
			"organizerEmail": e.OrganizerEmail,
			"paymentLink":    e.PaymentLink,
			"status":         e.Status,
		}, eventRules) {
			fe.Field = prefix + fe.Field
			errs = append(errs, fe)
		}
		switch {
		case e.StartDate.IsZero():
			errs = append(errs, apiresp.FieldError{Field: prefix + "startDate", Msg: "Start date is required"})
		case e.EndDate.IsZero():
			errs = append(errs, apiresp.FieldError{Field: prefix + "endDate", Msg: "End date is required"})
		case !e.EndDate.After(e.StartDate):
			errs = append(errs, apiresp.FieldError{Field: prefix + "endDate", Msg: "End date must be after start date"})
		}
		if e.Price != "" && !pricePattern.MatchString(e.Price) {
			errs = append(errs, apiresp.FieldError{Field: prefix + "price", Msg: "Price must be in currency format"})
		}
	}
	return errs
}
