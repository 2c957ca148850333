package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/unrolled/render"
)

type stubSessions struct{ userID string }

func (s stubSessions) GetUserID(*http.Request) string { return s.userID }

type stubUsers map[string]*models.User

func (u stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return u[id], nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(h http.Handler, userID string, users stubUsers) *httptest.ResponseRecorder {
	chain := IdentityMiddleware(stubSessions{userID}, users, logger.NewNop())(h)
	w := httptest.NewRecorder()
	chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/contributions", nil))
	return w
}

func TestAdminAuthMiddlewareIsUniform(t *testing.T) {
	rnd := render.New()
	users := stubUsers{
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin},
		"user-1":  {ID: "user-1", Role: models.RoleCustomer},
	}
	guarded := AdminAuthMiddleware(rnd, logger.NewNop())(okHandler)

	anonymous := serve(guarded, "", users)
	customer := serve(guarded, "user-1", users)
	ghost := serve(guarded, "deleted-user", users)

	for _, w := range []*httptest.ResponseRecorder{anonymous, customer, ghost} {
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
	assert.Equal(t, anonymous.Body.String(), customer.Body.String())
	assert.Equal(t, anonymous.Body.String(), ghost.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(guarded, "admin-1", users).Code)
}

func TestRequireUser(t *testing.T) {
	users := stubUsers{"user-1": {ID: "user-1"}}
	guarded := RequireUser(render.New(), logger.NewNop())(okHandler)

	assert.Equal(t, http.StatusUnauthorized, serve(guarded, "", users).Code)
	assert.Equal(t, http.StatusNoContent, serve(guarded, "user-1", users).Code)
}

func TestIdentityMiddlewareStoresUser(t *testing.T) {
	users := stubUsers{"user-1": {ID: "user-1"}}
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = helpers.UserIDFromContext(r)
	})

	serve(h, "user-1", users)
	assert.Equal(t, "user-1", seen)
}
