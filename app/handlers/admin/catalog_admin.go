package admin

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type StoreRequest struct {
	Name         string              `json:"name" validate:"required,max=255"`
	Brand        string              `json:"brand" validate:"max=100"`
	CategoryID   string              `json:"categoryId"`
	Address      string              `json:"address" validate:"max=255"`
	City         string              `json:"city" validate:"max=100"`
	PostalCode   string              `json:"postalCode" validate:"max=20"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
	Phone        string              `json:"phone" validate:"max=30"`
	OpeningHours models.OpeningHours `json:"openingHours"`
	IsActive     *bool               `json:"isActive"`
}

func (req StoreRequest) input() services.StoreInput {
	return services.StoreInput{
		Name:         req.Name,
		Brand:        req.Brand,
		CategoryID:   req.CategoryID,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Phone:        req.Phone,
		OpeningHours: req.OpeningHours,
		IsActive:     req.IsActive,
	}
}

type ProductRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Brand    string `json:"brand" validate:"max=100"`
	Category string `json:"category" validate:"max=100"`
	Unit     string `json:"unit" validate:"max=50"`
	Barcode  string `json:"barcode" validate:"max=50"`
	Image    string `json:"image" validate:"max=500"`
	IsActive *bool  `json:"isActive"`
}

func (req ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		Unit:     req.Unit,
		Barcode:  req.Barcode,
		Image:    req.Image,
		IsActive: req.IsActive,
	}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *AdminHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	store, err := h.stores.Create(r.Context(), req.input())
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, store)
}

func (h *AdminHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	store, err := h.stores.Update(r.Context(), mux.Vars(r)["id"], req.input())
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, store)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	product, err := h.products.Create(r.Context(), req.input())
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	product, err := h.products.Update(r.Context(), mux.Vars(r)["id"], req.input())
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, categories)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, category)
}
