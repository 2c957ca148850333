package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/db/testdb"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

// headerSessions trusts a request header instead of a signed cookie.
type headerSessions struct{}

func (headerSessions) GetUserID(r *http.Request) string { return r.Header.Get(testUserHeader) }

type apiFixture struct {
	t       *testing.T
	db      *gorm.DB
	router  *mux.Router
	store   *models.Store
	product *models.Product
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	db := testdb.New(t)

	require.NoError(t, db.Create(&models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}).Error)
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleCustomer}).Error)

	store := &models.Store{Name: "Delhaize", Latitude: decimal.NewFromFloat(50.85), Longitude: decimal.NewFromFloat(4.35), IsActive: true}
	require.NoError(t, db.Create(store).Error)
	product := &models.Product{Name: "Milk", IsActive: true}
	require.NoError(t, db.Create(product).Error)

	return &apiFixture{
		t:  t,
		db: db,
		router: NewRouter(Config{
			DB:       db,
			Sessions: headerSessions{},
			Log:      logger.NewNop(),
		}),
		store:   store,
		product: product,
	}
}

func (f *apiFixture) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if userID != "" {
		r.Header.Set(testUserHeader, userID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func (f *apiFixture) submitPrice(amount string) models.Contribution {
	f.t.Helper()
	w := f.do(http.MethodPost, "/contributions", "user-1", map[string]interface{}{
		"type":          "price_update",
		"storeId":       f.store.ID,
		"productId":     f.product.ID,
		"reportedPrice": amount,
	})
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	var c models.Contribution
	decode(f.t, w, &c)
	return c
}

func TestSubmitStampsUserAndPending(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/reports", "user-1", map[string]interface{}{
		"type":          "price_update",
		"storeId":       f.store.ID,
		"productId":     f.product.ID,
		"reportedPrice": 1.99,
		"userId":        "someone-else",
		"status":        "approved",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var c models.Contribution
	decode(t, w, &c)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, models.StatusPending, c.Status)

	w = f.do(http.MethodGet, "/contributions/mine", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Contribution
	decode(t, w, &mine)
	assert.Len(t, mine, 1)
}

func TestSubmitRejectsBadRequests(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/contributions", "", map[string]interface{}{"type": "price_update"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/contributions", "user-1", map[string]interface{}{"type": "price_update", "bogus": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/contributions", "user-1", map[string]interface{}{"comment": "no type"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &resp)
	assert.Contains(t, resp.Fields, "type")

	w = f.do(http.MethodPost, "/contributions", "user-1", map[string]interface{}{
		"type": "price_update", "storeId": "missing", "productId": f.product.ID, "reportedPrice": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesAnswerUniformly(t *testing.T) {
	f := newAPIFixture(t)
	c := f.submitPrice("2.49")
	path := "/admin/contributions/" + c.ID + "/approve"

	anonymous := f.do(http.MethodPatch, path, "", nil)
	customer := f.do(http.MethodPatch, path, "user-1", nil)

	assert.Equal(t, http.StatusForbidden, anonymous.Code)
	assert.Equal(t, http.StatusForbidden, customer.Code)
	assert.JSONEq(t, anonymous.Body.String(), customer.Body.String())

	storeDelete := f.do(http.MethodDelete, "/stores/"+f.store.ID, "user-1", nil)
	assert.Equal(t, http.StatusForbidden, storeDelete.Code)
}

func TestApproveFlowsIntoComparison(t *testing.T) {
	f := newAPIFixture(t)
	c := f.submitPrice("2.49")

	w := f.do(http.MethodPatch, "/admin/contributions/"+c.ID+"/approve", "admin-1", map[string]string{"adminNotes": "checked receipt"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved models.Contribution
	decode(t, w, &approved)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "admin-1", *approved.ReviewedBy)

	w = f.do(http.MethodPatch, "/admin/contributions/"+c.ID+"/reject", "admin-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodGet, "/products/"+f.product.ID+"/comparison?latitude=50.85&longitude=4.35", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var comparison struct {
		Rows []struct {
			StoreID        string   `json:"storeId"`
			HasPrice       bool     `json:"hasPrice"`
			FormattedPrice string   `json:"formattedPrice"`
			Distance       *float64 `json:"distance"`
		} `json:"rows"`
	}
	decode(t, w, &comparison)
	require.Len(t, comparison.Rows, 1)
	assert.Equal(t, f.store.ID, comparison.Rows[0].StoreID)
	assert.True(t, comparison.Rows[0].HasPrice)
	assert.Equal(t, "€ 2,49", comparison.Rows[0].FormattedPrice)
	require.NotNil(t, comparison.Rows[0].Distance)
	assert.InDelta(t, 0, *comparison.Rows[0].Distance, 0.001)
}

func TestComparisonQueryValidation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/products/"+f.product.ID+"/comparison?latitude=north&longitude=4.35", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/products/"+f.product.ID+"/comparison?latitude=95&longitude=4.35", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/products/missing/comparison", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	first := f.submitPrice("1.00")
	second := f.submitPrice("1.10")

	w := f.do(http.MethodPost, "/admin/contributions/bulk-reject", "admin-1", map[string]interface{}{
		"contributionIds": []string{first.ID, second.ID},
		"reason":          "duplicate",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"requested":2,"affected":2}`, w.Body.String())

	w = f.do(http.MethodDelete, "/admin/contributions/bulk-delete", "admin-1", map[string]interface{}{
		"contributionIds": []string{first.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"requested":1,"affected":1}`, w.Body.String())

	w = f.do(http.MethodGet, "/admin/contributions/"+first.ID, "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/admin/contributions/bulk-reject", "admin-1", map[string]interface{}{"contributionIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCascadeDeleteStoreOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	f.submitPrice("1.00")

	w := f.do(http.MethodPost, "/admin/prices", "admin-1", map[string]interface{}{
		"type":      "price",
		"storeId":   f.store.ID,
		"productId": f.product.ID,
		"data":      map[string]interface{}{"price": "3.10", "isPromotion": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodDelete, "/stores/"+f.store.ID, "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report struct {
		Prices        int64 `json:"prices"`
		Memberships   int64 `json:"memberships"`
		Contributions int64 `json:"contributions"`
		Stores        int64 `json:"stores"`
	}
	decode(t, w, &report)
	assert.Equal(t, int64(1), report.Prices)
	assert.Equal(t, int64(1), report.Memberships)
	assert.Equal(t, int64(1), report.Contributions)
	assert.Equal(t, int64(1), report.Stores)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/stores/"+f.store.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/admin/stores/"+f.store.ID, "admin-1", nil).Code)
}

func TestAdminCreateStoreValidation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/admin/stores", "admin-1", map[string]interface{}{
		"name": "No category", "latitude": "50.1", "longitude": "4.1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/admin/stores", "admin-1", map[string]interface{}{
		"name": "Bad coordinates", "latitude": "fifty", "longitude": "4.1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/admin/categories", "admin-1", map[string]string{"name": "Supermarket"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	decode(t, w, &category)

	w = f.do(http.MethodPost, "/admin/stores", "admin-1", map[string]interface{}{
		"name": "Colruyt", "categoryId": category.ID, "latitude": "50.1", "longitude": "4.1",
		"openingHours": map[string]interface{}{"monday": []map[string]string{{"open": "08:00", "close": "20:00"}}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCommunityWrites(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/stores/"+f.store.ID+"/products", "user-1", map[string]interface{}{
		"productId": f.product.ID,
		"price":     "0.99",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/stores/"+f.store.ID+"/products/"+f.product.ID+"/votes", "user-1", map[string]interface{}{
		"kind": "availability", "value": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sp models.StoreProduct
	require.NoError(t, f.db.WithContext(context.Background()).First(&sp, "store_id = ? AND product_id = ?", f.store.ID, f.product.ID).Error)
	assert.False(t, sp.IsAvailable)

	w = f.do(http.MethodPost, "/stores/"+f.store.ID+"/ratings", "user-1", map[string]interface{}{"score": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/stores/"+f.store.ID+"/ratings", "user-1", map[string]interface{}{"score": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/stores/"+f.store.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Rating struct {
			Count int64 `json:"count"`
		} `json:"rating"`
	}
	decode(t, w, &detail)
	assert.Equal(t, int64(1), detail.Rating.Count)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}
