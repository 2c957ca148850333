package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/sessions"
	"github.com/unrolled/render"
)

// IdentityMiddleware resolves the session user and stores it in the request
// context. Anonymous requests pass through untouched.
func IdentityMiddleware(store sessions.SessionStore, userRepo repositories.UserRepositoryImpl, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Error("IdentityMiddleware: failed to load user", "user_id", userID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				log.Debug("IdentityMiddleware: session refers to unknown user", "user_id", userID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, user.ID)
			ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests without a resolved user.
func RequireUser(rnd *render.Render, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.UserFromContext(r) == nil {
				helpers.WriteError(rnd, w, log, services.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"user_id", helpers.UserIDFromContext(r),
			)
		})
	}
}
