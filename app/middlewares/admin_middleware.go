package middlewares

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/unrolled/render"
)

// AdminAuthMiddleware answers every non-admin request with the same 403,
// whether the session is missing or the role is wrong.
func AdminAuthMiddleware(rnd *render.Render, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := helpers.UserFromContext(r)
			if user == nil {
				log.Debug("AdminAuthMiddleware: anonymous request", "path", r.URL.Path)
				helpers.WriteError(rnd, w, log, services.ErrForbidden)
				return
			}
			if !user.IsAdmin() {
				log.Warn("AdminAuthMiddleware: non-admin request", "user_id", user.ID, "path", r.URL.Path)
				helpers.WriteError(rnd, w, log, services.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
