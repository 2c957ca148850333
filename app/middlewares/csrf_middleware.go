package middlewares

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

// CSRF protects unsafe methods with gorilla/csrf. Failures are answered with
// the same JSON 403 as the admin check.
func CSRF(key []byte, secure bool, rnd *render.Render, log *logger.Logger) func(http.Handler) http.Handler {
	return csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			rnd.JSON(w, http.StatusForbidden, helpers.ErrorResponse{Error: "forbidden"})
		})),
	)
}
