package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Tokens                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// DefaultExpiry is used when jwt_expiry is not set.
const DefaultExpiry = 30 * 24 * time.Hour

// ErrInvalidToken covers every reason a bearer token is rejected.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by an admin token. exp and iat come from the registered
// claims.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 admin tokens.
type Tokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokens creates a token service. The secret must be non-empty.
func NewTokens(secret string, expiry time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Tokens{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

// Expiry returns the configured token lifetime.
func (t *Tokens) Expiry() time.Duration { return t.expiry }

// Issue signs a token for the admin.
func (t *Tokens) Issue(id primitive.ObjectID, role string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.expiry)
	claims := Claims{
		ID:   id.Hex(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies the signature and expiry of raw and returns its claims.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidToken)
	}
	return &claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-admin helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentAdminKey ctxKey = "currentAdmin"

// WithAdmin returns ctx carrying a.
func WithAdmin(ctx context.Context, a *models.Admin) context.Context {
	return context.WithValue(ctx, currentAdminKey, a)
}

// CurrentAdmin returns the admin attached by RequireAdmin.
func CurrentAdmin(r *http.Request) (*models.Admin, bool) {
	a, ok := r.Context().Value(currentAdminKey).(*models.Admin)
	return a, ok && a != nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// AdminFinder loads an admin by id. ErrNotFound-style errors and any other
// failure are treated the same: the request is not authenticated.
type AdminFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Admin, error)
}

// Middleware guards back-office routes.
type Middleware struct {
	tokens *Tokens
	admins AdminFinder
	log    *zap.Logger
}

// NewMiddleware wires the token service to the admin store.
func NewMiddleware(tokens *Tokens, admins AdminFinder, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, admins: admins, log: logger}
}

// RequireAdmin accepts "Authorization: Bearer <token>", re-loads the admin
// on every request, and rejects unknown or inactive accounts with 401.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			apiresp.Unauthorized(w, "Not authorized to access this route")
			return
		}
		claims, err := m.tokens.Parse(raw)
		if err != nil {
			apiresp.Unauthorized(w, "Not authorized to access this route")
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			apiresp.Unauthorized(w, "Not authorized to access this route")
			return
		}
		admin, err := m.admins.GetByID(r.Context(), id)
		if err != nil {
			m.log.Debug("token admin lookup failed", zap.String("admin_id", claims.ID), zap.Error(err))
			apiresp.Unauthorized(w, "Not authorized to access this route")
			return
		}
		if !admin.IsActive {
			apiresp.Unauthorized(w, "Account is deactivated")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), &admin)))
	})
}

// RequireRole must run after RequireAdmin. Admins without one of the
// roles get 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := CurrentAdmin(r)
			if !ok {
				apiresp.Unauthorized(w, "Not authorized to access this route")
				return
			}
			if _, has := set[strings.ToLower(a.Role)]; !has {
				apiresp.Forbidden(w, fmt.Sprintf("Role %s is not authorized to access this route", a.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
