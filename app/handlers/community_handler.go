package handlers

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// CommunityHandler takes the direct user writes that skip moderation:
// catalog additions, votes and store ratings.
type CommunityHandler struct {
	prices   *services.PriceService
	feedback *services.FeedbackService
	render   *render.Render
	log      *logger.Logger
}

func NewCommunityHandler(prices *services.PriceService, feedback *services.FeedbackService, render *render.Render, log *logger.Logger) *CommunityHandler {
	return &CommunityHandler{
		prices:   prices,
		feedback: feedback,
		render:   render,
		log:      log.With("handler", "CommunityHandler"),
	}
}

type AddProductRequest struct {
	ProductID string              `json:"productId" validate:"required"`
	Price     decimal.NullDecimal `json:"price"`
	Comment   string              `json:"comment" validate:"max=2000"`
}

func (h *CommunityHandler) AddProductToStore(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	result, err := h.prices.AddProductToStore(r.Context(), services.AddProductInput{
		UserID:    helpers.UserIDFromContext(r),
		StoreID:   mux.Vars(r)["id"],
		ProductID: req.ProductID,
		Price:     req.Price,
		Comment:   req.Comment,
	})
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, result)
}

type VoteRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=price availability"`
	Value *bool  `json:"value" validate:"required"`
}

func (h *CommunityHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	vars := mux.Vars(r)
	result, err := h.feedback.Vote(r.Context(), helpers.UserIDFromContext(r), vars["storeId"], vars["productId"], models.VoteKind(req.Kind), *req.Value)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}

type RatingRequest struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *CommunityHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	result, err := h.feedback.Rate(r.Context(), helpers.UserIDFromContext(r), mux.Vars(r)["id"], req.Score, req.Comment)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}

func (h *CommunityHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.feedback.Ratings(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, ratings)
}
