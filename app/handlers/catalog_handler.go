package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/geo"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// CatalogHandler serves the public read side: stores, products, their prices
// and the price comparison.
type CatalogHandler struct {
	stores     *services.StoreService
	products   *services.ProductService
	prices     *services.PriceService
	comparison *services.ComparisonService
	render     *render.Render
	log        *logger.Logger
}

func NewCatalogHandler(
	stores *services.StoreService,
	products *services.ProductService,
	prices *services.PriceService,
	comparison *services.ComparisonService,
	render *render.Render,
	log *logger.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		stores:     stores,
		products:   products,
		prices:     prices,
		comparison: comparison,
		render:     render,
		log:        log.With("handler", "CatalogHandler"),
	}
}

func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	page, limit := helpers.PageParams(r)
	filter := repositories.StoreFilter{
		City:       r.URL.Query().Get("city"),
		CategoryID: r.URL.Query().Get("categoryId"),
		ActiveOnly: true,
	}

	stores, total, err := h.stores.List(r.Context(), filter, page, limit)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, helpers.PageResponse{Items: stores, Total: total, Page: page, Limit: services.PageSize(limit)})
}

func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, store)
}

func (h *CatalogHandler) StorePrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.prices.PricesForStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, prices)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := helpers.PageParams(r)

	products, total, err := h.products.List(r.Context(), r.URL.Query().Get("q"), page, limit)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, helpers.PageResponse{Items: products, Total: total, Page: page, Limit: services.PageSize(limit)})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ProductPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.prices.PricesForProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, prices)
}

// Comparison ranks every active store carrying the product. Distances are
// filled in only when both latitude and longitude are given.
func (h *CatalogHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	observer, err := observerFromQuery(r)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	result, err := h.comparison.Compare(r.Context(), mux.Vars(r)["id"], observer)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}

func observerFromQuery(r *http.Request) (*geo.Point, error) {
	latRaw := r.URL.Query().Get("latitude")
	lngRaw := r.URL.Query().Get("longitude")
	if latRaw == "" || lngRaw == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude must be a number", services.ErrValidation)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude must be a number", services.ErrValidation)
	}
	return &geo.Point{Lat: lat, Lng: lng}, nil
}
