package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	apperrors "eventease/pkg/errors"
	httputil "eventease/pkg/http"
	"eventease/pkg/logger"
	"eventease/pkg/model"
)

const capabilityKey contextKey = "capability"

type authClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Authenticator verifies bearer tokens and attaches the caller's
// capability to the request context. Token issuing lives in a separate
// identity service; this side only verifies HS256 signatures.
type Authenticator struct {
	secret []byte
	log    *logger.Logger
}

func NewAuthenticator(secret string, log *logger.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), log: log}
}

// Required wraps a route that needs an authenticated caller.
func (a *Authenticator) Required(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cap, err := a.authenticate(r)
		if err != nil {
			_ = httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), capabilityKey, cap)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole wraps a route that needs an authenticated caller holding
// a specific role.
func (a *Authenticator) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return a.Required(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cap, _ := CapabilityFrom(r.Context())
		if cap.Role != role {
			a.log.Warn("Role check failed",
				"request_id", requestIDFrom(r.Context()),
				"user_id", cap.UserID,
				"role", cap.Role,
				"required", role,
				"path", r.URL.Path,
			)
			_ = httputil.WriteError(w, apperrors.Forbidden("Not authorized"))
			return
		}
		next(w, r, ps)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (model.Capability, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return model.Capability{}, apperrors.Unauthorized("Missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Capability{}, apperrors.Unauthorized("Invalid or expired token")
	}

	if claims.Subject == "" {
		return model.Capability{}, apperrors.Unauthorized("Token missing subject")
	}

	role := claims.Role
	if role == "" {
		role = model.RoleUser
	}

	return model.Capability{UserID: claims.Subject, Role: role}, nil
}

// CapabilityFrom extracts the authenticated caller from the context.
func CapabilityFrom(ctx context.Context) (model.Capability, bool) {
	cap, ok := ctx.Value(capabilityKey).(model.Capability)
	return cap, ok
}

// WithCapability returns a context carrying the capability. Intended
// for tests.
func WithCapability(ctx context.Context, cap model.Capability) context.Context {
	return context.WithValue(ctx, capabilityKey, cap)
}
