package programform

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func validFields() Fields {
	return Fields{
		Title:      strp("Integrated Clinical Hypnotherapy"),
		Subtitle:   strp("Certification course"),
		Duration:   strp("5 days"),
		CardPoints: &[]string{"<b>Hands-on</b> practice"},
		LearningSections: &[]Section{
			{Title: "Foundations", Content: "<p>History and ethics of hypnosis</p>"},
		},
		UpcomingEvents: &[]Event{{
			StartDate:   "2030-03-01T09:00:00Z",
			EndDate:     "2030-03-05T17:00:00Z",
			EventName:   "Spring cohort",
			Location:    "Austin",
			Organiser:   "Dr. Rao",
			Price:       "$450.00",
			PaymentLink: "https://pay.example.com/ich",
		}},
	}
}

func TestDecode_JSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Decode Your Mind","cardPoints":["one point"]}`))
	r.Header.Set("Content-Type", "application/json")

	p, err := Decode(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, JSON, p.Transport)
	assert.Equal(t, "Decode Your Mind", *p.Fields.Title)
	assert.Equal(t, []string{"one point"}, *p.Fields.CardPoints)
	assert.Nil(t, p.Fields.Subtitle)
	assert.Nil(t, p.Fields.UpcomingEvents)
}

func TestDecode_MultipartParsesJSONStrings(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "TASSO Module"))
	require.NoError(t, mw.WriteField("cardPoints", `["first point","second point"]`))
	require.NoError(t, mw.WriteField("learningSections", `[{"title":"Module one","points":["a","b"]}]`))
	require.NoError(t, mw.WriteField("upcomingEvents", `[{"eventName":"Summer intake","date":"2030-06-01T10:00:00Z"}]`))
	fw, err := mw.CreateFormFile("thumbnail", "thumb.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	p, err := Decode(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, Multipart, p.Transport)
	require.NotNil(t, p.Thumbnail)
	assert.Equal(t, "thumb.png", p.Thumbnail.Filename)
	assert.Equal(t, []string{"first point", "second point"}, *p.Fields.CardPoints)
	require.Len(t, *p.Fields.LearningSections, 1)
	assert.Equal(t, []string{"a", "b"}, (*p.Fields.LearningSections)[0].Points)
	require.Len(t, *p.Fields.UpcomingEvents, 1)
	assert.Equal(t, "2030-06-01T10:00:00Z", (*p.Fields.UpcomingEvents)[0].Date)
}

func TestDecode_BadBodies(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	r.Header.Set("Content-Type", "application/json")
	_, err := Decode(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, ErrBadBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`cardPoints=%5Bnot-json`))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = Decode(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, ErrBadBody)
}

func TestApply_Valid(t *testing.T) {
	var p models.Program
	errs := validFields().Apply(&p)
	require.Empty(t, errs)
	assert.Equal(t, models.StatusOpen, p.Status)
	assert.Equal(t, models.StatusOpen, p.UpcomingEvents[0].Status)
	assert.Equal(t, "<b>Hands-on</b> practice", p.CardPoints[0])
}

func TestApply_NormalizesLegacyShapes(t *testing.T) {
	f := validFields()
	f.LearningSections = &[]Section{{Title: "Core skills", Points: []string{"Induction", "Deepening"}}}
	f.UpcomingEvents = &[]Event{
		{},
		{
			Date:        "2030-04-10T15:00:00Z",
			EventName:   "Evening cohort",
			Location:    "Online",
			Organiser:   "Dr. Rao",
			PaymentLink: "https://pay.example.com/x",
		},
	}

	var p models.Program
	require.Empty(t, f.Apply(&p))
	assert.Equal(t, "<ul><li>Induction</li><li>Deepening</li></ul>", p.LearningSections[0].Content)
	require.Len(t, p.UpcomingEvents, 1, "empty events are dropped")
	ev := p.UpcomingEvents[0]
	assert.Equal(t, time.Date(2030, 4, 10, 15, 0, 0, 0, time.UTC), ev.StartDate)
	assert.Equal(t, 2*time.Hour, ev.EndDate.Sub(ev.StartDate))
}

func TestApply_SanitizesRichText(t *testing.T) {
	f := validFields()
	f.LearningSections = &[]Section{{Title: "Safety first", Content: `<p onclick="x()">Clinical practice</p><script>alert(1)</script>`}}

	var p models.Program
	require.Empty(t, f.Apply(&p))
	assert.NotContains(t, p.LearningSections[0].Content, "script")
	assert.NotContains(t, p.LearningSections[0].Content, "onclick")
	assert.Contains(t, p.LearningSections[0].Content, "Clinical practice")
}

func TestApply_Failures(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Fields)
		field string
	}{
		{"short title", func(f *Fields) { f.Title = strp("abc") }, "title"},
		{"bad video url", func(f *Fields) { f.VideoURL = strp("not a url") }, "videoUrl"},
		{"bad status", func(f *Fields) { f.Status = strp("Maybe") }, "status"},
		{"short card point", func(f *Fields) { f.CardPoints = &[]string{"<b>ab</b>"} }, "cardPoints[0]"},
		{"html-only content", func(f *Fields) {
			f.LearningSections = &[]Section{{Title: "Section title", Content: "<p>   </p><br/>"}}
		}, "learningSections[0].content"},
		{"end before start", func(f *Fields) {
			(*f.UpcomingEvents)[0].EndDate = "2030-02-01T09:00:00Z"
		}, "upcomingEvents[0].endDate"},
		{"end equals start", func(f *Fields) {
			(*f.UpcomingEvents)[0].EndDate = (*f.UpcomingEvents)[0].StartDate
		}, "upcomingEvents[0].endDate"},
		{"bad price", func(f *Fields) { (*f.UpcomingEvents)[0].Price = "450 dollars" }, "upcomingEvents[0].price"},
		{"missing payment link", func(f *Fields) { (*f.UpcomingEvents)[0].PaymentLink = "" }, "upcomingEvents[0].paymentLink"},
		{"unparsable start", func(f *Fields) { (*f.UpcomingEvents)[0].StartDate = "next tuesday" }, "upcomingEvents[0].startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			evs := append([]Event(nil), *f.UpcomingEvents...)
			f.UpcomingEvents = &evs
			tt.edit(&f)

			var p models.Program
			errs := f.Apply(&p)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestApply_EventErrorsUseStoredIndex(t *testing.T) {
	f := validFields()
	good := (*f.UpcomingEvents)[0]
	bad := good
	bad.StartDate = "next tuesday"
	f.UpcomingEvents = &[]Event{{}, good, {}, bad}

	var p models.Program
	errs := f.Apply(&p)
	require.Len(t, p.UpcomingEvents, 2)

	require.Len(t, errs, 1, "a bad date is reported once: %v", errs)
	assert.Equal(t, "upcomingEvents[1].startDate", errs[0].Field)
	assert.Equal(t, "Start date is not a valid date", errs[0].Msg)
}

func TestApply_BadLegacyDateReportedOnce(t *testing.T) {
	f := validFields()
	ev := (*f.UpcomingEvents)[0]
	ev.StartDate, ev.EndDate, ev.Date = "", "", "someday"
	f.UpcomingEvents = &[]Event{{}, ev}

	var p models.Program
	errs := f.Apply(&p)
	require.Len(t, errs, 1, "%v", errs)
	assert.Equal(t, "upcomingEvents[0].date", errs[0].Field)
}

func TestApply_PartialUpdateKeepsStoredValues(t *testing.T) {
	var p models.Program
	require.Empty(t, validFields().Apply(&p))

	update := Fields{Status: strp("closed")}
	require.Empty(t, update.Apply(&p))
	assert.Equal(t, models.StatusClosed, p.Status)
	assert.Equal(t, "Integrated Clinical Hypnotherapy", p.Title)
	assert.Len(t, p.UpcomingEvents, 1)
}
