package admin_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/features/admin"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/indexes"
	"github.com/dalemusser/ekaahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type env struct {
	h      *admin.Handler
	fx     *testutil.Fixtures
	router chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))

	logger := zap.NewNop()
	tokens, err := auth.NewTokens("test-secret-at-least-32-characters!!", time.Hour)
	require.NoError(t, err)
	limiter := ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 3, time.Minute)
	t.Cleanup(limiter.Stop)

	h := admin.NewHandler(db, tokens, limiter, true, logger)
	mw := auth.NewMiddleware(tokens, h.Store, logger)

	r := chi.NewRouter()
	r.Mount("/api/admin", admin.Routes(h, mw.RequireAdmin))
	return &env{h: h, fx: testutil.NewFixtures(t, db), router: r}
}

func (e *env) do(r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func (e *env) login(t *testing.T, email, pw string) string {
	t.Helper()
	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/admin/login", map[string]string{"email": email, "password": pw}))
	rec.AssertStatus(t, http.StatusOK)
	tok, _ := rec.JSON(t)["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func authed(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := e.fx.CreateAdmin(ctx, "ops@ekaa.example", "correct-horse", models.RoleAdmin)

	tok := e.login(t, " OPS@ekaa.example ", "correct-horse")
	claims, err := e.h.Tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, a.ID.Hex(), claims.ID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	got, err := e.h.Store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)

	tests := []struct {
		name  string
		email string
		pw    string
		want  int
		msg   string
	}{
		{"missing password", "ops@ekaa.example", "", http.StatusBadRequest, "Please provide an email and password"},
		{"wrong password", "ops@ekaa.example", "nope", http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", "who@ekaa.example", "correct-horse", http.StatusUnauthorized, "Invalid credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/admin/login", map[string]string{"email": tt.email, "password": tt.pw}))
			rec.AssertStatus(t, tt.want)
			rec.AssertContains(t, tt.msg)
		})
	}
}

func TestLogin_InactiveRejected(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := e.fx.CreateAdmin(ctx, "gone@ekaa.example", "correct-horse", models.RoleAdmin)
	_, err := e.fx.DB().Collection("admins").UpdateByID(ctx, a.ID, bson.M{"$set": bson.M{"isActive": false}})
	require.NoError(t, err)

	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/admin/login", map[string]string{"email": "gone@ekaa.example", "password": "correct-horse"}))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Account is deactivated")
}

func TestLogin_RateLimitedPerEmail(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreateAdmin(ctx, "ops@ekaa.example", "correct-horse", models.RoleAdmin)
	for i := 0; i < 3; i++ {
		rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/admin/login", map[string]string{"email": "ops@ekaa.example", "password": "bad"}))
		rec.AssertStatus(t, http.StatusUnauthorized)
	}
	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/api/admin/login", map[string]string{"email": "ops@ekaa.example", "password": "correct-horse"}))
	rec.AssertStatus(t, http.StatusTooManyRequests)
}

func TestMeAndUpdates(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreateAdmin(ctx, "ops@ekaa.example", "correct-horse", models.RoleAdmin)
	e.fx.CreateAdmin(ctx, "taken@ekaa.example", "correct-horse", models.RoleAdmin)
	tok := e.login(t, "ops@ekaa.example", "correct-horse")

	e.do(testutil.NewRequest(http.MethodGet, "/api/admin/me")).AssertStatus(t, http.StatusUnauthorized)

	rec := e.do(authed(testutil.NewRequest(http.MethodGet, "/api/admin/me"), tok))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "ops@ekaa.example")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPut, "/api/admin/updatedetails", map[string]string{"name": "Ops Desk"}), tok))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"name":"Ops Desk"`)
	rec.AssertContains(t, "ops@ekaa.example")

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPut, "/api/admin/updatedetails", map[string]string{"email": "taken@ekaa.example"}), tok))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPut, "/api/admin/updatepassword",
		map[string]string{"currentPassword": "wrong", "newPassword": "battery-staple"}), tok))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Password is incorrect")

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPut, "/api/admin/updatepassword",
		map[string]string{"currentPassword": "correct-horse", "newPassword": "battery-staple"}), tok))
	rec.AssertStatus(t, http.StatusOK)

	e.login(t, "ops@ekaa.example", "battery-staple")
}

func TestRegister_SuperAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreateAdmin(ctx, "ops@ekaa.example", "correct-horse", models.RoleAdmin)
	e.fx.CreateAdmin(ctx, "root@ekaa.example", "correct-horse", models.RoleSuperAdmin)
	body := map[string]string{"name": "New Admin", "email": "new@ekaa.example", "password": "s3cret-pass"}

	rec := e.do(authed(testutil.NewJSONRequest(http.MethodPost, "/api/admin/register", body), e.login(t, "ops@ekaa.example", "correct-horse")))
	rec.AssertStatus(t, http.StatusForbidden)

	root := e.login(t, "root@ekaa.example", "correct-horse")
	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPost, "/api/admin/register", body), root))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"token"`)

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPost, "/api/admin/register", body), root))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = e.do(authed(testutil.NewJSONRequest(http.MethodPost, "/api/admin/register",
		map[string]string{"name": "X", "email": "bad", "password": "1", "role": "owner"}), root))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	e.login(t, "new@ekaa.example", "s3cret-pass")
}
