package errors_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "github.com/dalemusser/ekaahub/internal/app/features/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestRouterFallbacks(t *testing.T) {
	h := apierrors.NewHandler(zap.NewNop())
	r := chi.NewRouter()
	r.Use(h.Recoverer)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/things", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })

	tests := []struct {
		method, path string
		want         int
		contains     string
	}{
		{"GET", "/nowhere", http.StatusNotFound, "Route GET /nowhere not found"},
		{"DELETE", "/things", http.StatusMethodNotAllowed, "Method DELETE not allowed"},
		{"GET", "/boom", http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.contains) || !strings.Contains(body, `"success":false`) {
				t.Errorf("body = %s", body)
			}
		})
	}
}
