package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

// CSRFToken hands the current token to browser clients. It is empty when
// CSRF protection is off.
func CSRFToken(rnd *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"csrfToken": csrf.Token(r)})
	}
}
