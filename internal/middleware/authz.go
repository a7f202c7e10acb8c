// Package middleware wires authentication and authorization into the HTTP
// request path: Actor loads the session user onto the context, Enforce runs a
// gate decision before the handler and translates denials to HTTP responses.
package middleware

import (
	"net/http"

	"github.com/jopotts/canable"
	"github.com/jopotts/canable/internal/auth"
	"github.com/jopotts/canable/internal/httpx"
	"github.com/jopotts/canable/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor resolves the session cookie to a user record and stores it on the
// request context. Requests without a valid session continue as anonymous;
// whether anonymous access is allowed is the gate's call, not this one.
func Actor(conn *gorm.DB, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.ParseSession(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			var user models.User
			if err := conn.First(&user, uid).Error; err != nil {
				// Stale session for a deleted user; proceed anonymous.
				logger.Debug("session user not found", zap.Uint("user_id", uid))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), &user)))
		})
	}
}

// TargetFunc derives the authorization target from the request, e.g. a class
// descriptor for collection routes or a loaded record for item routes.
type TargetFunc func(r *http.Request) any

// EnvFunc derives the call-time env passed through to the predicates.
type EnvFunc func(r *http.Request) canable.Env

// Enforce authorizes one action per request before the handler runs.
// A Transgression becomes a 403 with the denied action; an unregistered
// action is a wiring bug and becomes a 500.
func Enforce(gate *canable.Gate[*models.User], action canable.Action, target TargetFunc, env EnvFunc, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := auth.UserFrom(r.Context())
			var callEnv canable.Env
			if env != nil {
				callEnv = env(r)
			}
			err := gate.Authorize(r.Context(), actor, action, target(r), callEnv)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			if tr, ok := canable.AsTransgression(err); ok {
				logger.Warn("authorization denied",
					zap.String("action", string(tr.Action)),
					zap.String("path", r.URL.Path),
					zap.Uint("user_id", userID(actor)))
				httpx.Forbidden(w, string(tr.Action))
				return
			}
			// ErrUnknownAction: the route names an action nobody registered.
			logger.Error("authorization failed",
				zap.String("action", string(action)),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		})
	}
}

func userID(u *models.User) uint {
	if u == nil {
		return 0
	}
	return u.ID
}
