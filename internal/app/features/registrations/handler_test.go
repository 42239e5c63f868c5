package registrations_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/features/registrations"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	h      *registrations.Handler
	fx     *testutil.Fixtures
	pool   *tasks.Pool
	sent   *mailer.LogSender
	router chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	local, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	pool := tasks.NewPool(2, 32, 5*time.Second, logger)
	pool.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Stop(ctx)
	})

	sender := mailer.NewLogSender(logger)
	comp := &mailer.Composer{Routing: routing.Default(), AdminEmail: "office@example.com", ReplyTo: "office@example.com"}
	h := registrations.NewHandler(db, uploads.NewUploader(local), pool, mailer.New(sender, logger), comp, true, logger)

	r := chi.NewRouter()
	for _, d := range registrations.Programs() {
		r.Mount(d.Path, registrations.Routes(h, d, nil, nil))
	}
	return &env{h: h, fx: testutil.NewFixtures(t, db), pool: pool, sent: sender, router: r}
}

// drain waits for queued emails by stopping the pool.
func (e *env) drain(t *testing.T) []mailer.Email {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.pool.Stop(ctx))
	return e.sent.Sent()
}

func (e *env) do(r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func personBody() map[string]any {
	return map[string]any{
		"firstName":                "Meera",
		"lastName":                 "Iyer",
		"nameAsCertificate":        "Meera Iyer",
		"currentAddress":           "1 Lake Rd",
		"permanenetAddress":        "1 Lake Rd",
		"city":                     "Houston",
		"mobileNo":                 "+1 713 555 0199",
		"email":                    "Meera@Example.com",
		"dob":                      "1988-02-11",
		"occupation":               "Teacher",
		"communicationPreferences": true,
		"termsandcondition":        true,
	}
}

func TestCreate_ValidationFailed(t *testing.T) {
	e := newEnv(t)

	body := personBody()
	delete(body, "firstName")
	body["termsandcondition"] = false
	body["mobileNo"] = "12"

	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/family-constellation/", body))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	got := rec.JSON(t)
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "Validation failed", got["message"])
	errs, _ := got["errors"].([]any)
	var fieldsSeen []string
	for _, fe := range errs {
		fieldsSeen = append(fieldsSeen, fe.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"firstName", "mobileNo", "termsandcondition"}, fieldsSeen)
}

func TestCreate_DecodeQueuesEmails(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/decode-registration/", personBody()))
	rec.AssertStatus(t, http.StatusCreated)

	got := rec.JSON(t)
	data := got["data"].(map[string]any)
	assert.Equal(t, "meera@example.com", data["email"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, map[string]any{"adminQueued": true, "userQueued": true}, got["emailStatus"])

	sent := e.drain(t)
	require.Len(t, sent, 2)
	kinds := []string{sent[0].Kind, sent[1].Kind}
	assert.ElementsMatch(t, []string{"program_admin", "program_user"}, kinds)
}

func TestCreate_SessionCopiesCanonicalEvent(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2030, 3, 14, 17, 0, 0, 0, time.UTC)
	ev := e.fx.CreateFamilyEvent(ctx, start, start.Add(3*time.Hour), models.StatusOpen)

	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/familyConsitalation/register", map[string]any{
		"session":  map[string]any{"id": ev.ID.Hex(), "Event": "Forged", "Location": "Nowhere"},
		"fullName": "Kiran Rao",
		"email":    "kiran@example.com",
		"phone":    "5550102030",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	data := rec.JSON(t)["data"].(map[string]any)
	assert.Equal(t, models.FamilyConstellation, data["event"])
	assert.Equal(t, "Austin", data["location"])
	assert.Equal(t, "Mar 14, 2030", data["date"])
	assert.Equal(t, "organiser@example.com", data["organiserEmail"])
}

func TestCreate_SessionClosedOrUnknown(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now().Add(48 * time.Hour)
	closed := e.fx.CreateFamilyEvent(ctx, start, start.Add(time.Hour), models.StatusClosed)

	for _, id := range []string{closed.ID.Hex(), "000000000000000000000000", "not-an-id"} {
		t.Run(id, func(t *testing.T) {
			rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/familyConsitalation/register", map[string]any{
				"sessionId": id,
				"fullName":  "Kiran Rao",
				"email":     "kiran@example.com",
				"phone":     "5550102030",
			}))
			rec.AssertStatus(t, http.StatusUnprocessableEntity)
			rec.AssertContains(t, "sessionId")
		})
	}
}

func TestCreate_RegistrationFormDuplicate(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{
		"name":              "Priya Shah",
		"email":             "priya@example.com",
		"phone":             "5550102030",
		"selectedTrainings": []string{"ICH L1"},
	}

	first := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/registration-form/", body))
	first.AssertStatus(t, http.StatusCreated)
	id := first.JSON(t)["data"].(map[string]any)["_id"]

	body["email"] = "PRIYA@example.com"
	second := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/registration-form/", body))
	second.AssertStatus(t, http.StatusBadRequest)
	assert.Equal(t, id, second.JSON(t)["data"].(map[string]any)["id"])
}

func multipartRequest(t *testing.T, target string, values map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := testutil.NewRequest(http.MethodPost, target)
	r.Body = io.NopCloser(&buf)
	r.ContentLength = int64(buf.Len())
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestCreate_CourseMultipart(t *testing.T) {
	e := newEnv(t)
	values := map[string]string{
		"firstName":         "Anil",
		"lastName":          "Kumar",
		"nameAsCertificate": "Anil Kumar",
		"currentAddress":    "5 Elm St",
		"permanenetAddress": "5 Elm St",
		"city":              "Dallas | Decode The Child | Aug 9th, 2025",
		"mobileNo":          "5550102030",
		"email":             "anil@example.com",
		"dob":               "1979-11-30",
		"occupation":        "Engineer",
		"levelName":         "Level 1",
	}

	t.Run("missing required images", func(t *testing.T) {
		rec := e.do(multipartRequest(t, "/api/registration/", values, map[string][]byte{"idPhotofront": pngBytes}))
		rec.AssertStatus(t, http.StatusUnprocessableEntity)
		rec.AssertContains(t, "profileImage")
	})

	t.Run("not an image", func(t *testing.T) {
		rec := e.do(multipartRequest(t, "/api/registration/", values, map[string][]byte{
			"idPhotofront": []byte("plain text"),
			"profileImage": pngBytes,
		}))
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("stored", func(t *testing.T) {
		rec := e.do(multipartRequest(t, "/api/registration/", values, map[string][]byte{
			"idPhotofront": pngBytes,
			"profileImage": pngBytes,
		}))
		rec.AssertStatus(t, http.StatusCreated)
		data := rec.JSON(t)["data"].(map[string]any)
		assert.True(t, strings.HasPrefix(data["idPhotofront"].(string), "registrations/"))
		assert.Contains(t, data["profileImage"], "/profile-")
		assert.NotContains(t, data, "idphotoback")
	})
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreateRegistration(ctx, "tassoregistrations", models.Registration{
		FirstName: "Lata",
		Email:     "lata@example.com",
		City:      "Austin, TX",
		CreatedAt: time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC),
	})

	t.Run("empty range is 404", func(t *testing.T) {
		rec := e.do(testutil.NewRequest(http.MethodGet, "/api/tasso-registration/download?startDate=2024-01-01&endDate=2024-01-31"))
		rec.AssertStatus(t, http.StatusNotFound)
		assert.Equal(t, false, rec.JSON(t)["success"])
	})

	t.Run("bad date is 400", func(t *testing.T) {
		rec := e.do(testutil.NewRequest(http.MethodGet, "/api/tasso-registration/download?startDate=05/10/2025"))
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("rows", func(t *testing.T) {
		rec := e.do(testutil.NewRequest(http.MethodGet, "/api/tasso-registration/download?startDate=2025-05-01&endDate=2025-05-31"))
		rec.AssertStatus(t, http.StatusOK)
		assert.Equal(t, `attachment; filename="tasso-2025-05-01_to_2025-05-31.csv"`, rec.Header().Get("Content-Disposition"))
		lines := strings.Split(rec.Body.String(), "\r\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "firstName,middleName,lastName"))
		assert.Contains(t, lines[1], `"Austin, TX"`)
	})
}

func TestListGetDelete(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reg := e.fx.CreateRegistration(ctx, "ich_registrations", models.Registration{FirstName: "Zoya", LastName: "Das", Email: "zoya@example.com"})
	e.fx.CreateRegistration(ctx, "ich_registrations", models.Registration{FirstName: "Omar", Email: "omar@example.com"})

	rec := e.do(testutil.NewRequest(http.MethodGet, "/api/ich/?search=zoya"))
	rec.AssertStatus(t, http.StatusOK)
	pg := rec.JSON(t)["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pg["total"])

	e.do(testutil.NewRequest(http.MethodGet, "/api/ich/"+reg.ID.Hex())).AssertStatus(t, http.StatusOK)
	e.do(testutil.NewRequest(http.MethodGet, "/api/ich/xyz")).AssertStatus(t, http.StatusBadRequest)

	del := e.do(testutil.NewRequest(http.MethodDelete, "/api/ich/"+reg.ID.Hex()))
	del.AssertStatus(t, http.StatusOK)
	del.AssertContains(t, "Zoya Das")

	e.do(testutil.NewRequest(http.MethodGet, "/api/ich/"+reg.ID.Hex())).AssertStatus(t, http.StatusNotFound)
}
