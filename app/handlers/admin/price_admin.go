package admin

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/shopspring/decimal"
)

type AdminPriceRequest struct {
	Type      string         `json:"type" validate:"required,oneof=price availability"`
	StoreID   string         `json:"storeId" validate:"required"`
	ProductID string         `json:"productId" validate:"required"`
	Data      AdminPriceData `json:"data"`
}

type AdminPriceData struct {
	Price       decimal.NullDecimal `json:"price"`
	IsPromotion bool                `json:"isPromotion"`
	IsAvailable *bool               `json:"isAvailable"`
}

// UpsertPrice writes a price or availability straight to the ledger,
// bypassing moderation.
func (h *AdminHandler) UpsertPrice(w http.ResponseWriter, r *http.Request) {
	var req AdminPriceRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	result, err := h.prices.AdminUpsert(r.Context(), services.AdminPriceInput{
		Kind:        req.Type,
		StoreID:     req.StoreID,
		ProductID:   req.ProductID,
		Amount:      req.Data.Price,
		IsPromotion: req.Data.IsPromotion,
		IsAvailable: req.Data.IsAvailable,
	})
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}
