package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ContributionHandler struct {
	contributions *services.ContributionService
	render        *render.Render
	log           *logger.Logger
}

func NewContributionHandler(contributions *services.ContributionService, render *render.Render, log *logger.Logger) *ContributionHandler {
	return &ContributionHandler{
		contributions: contributions,
		render:        render,
		log:           log.With("handler", "ContributionHandler"),
	}
}

type SubmitContributionRequest struct {
	Type                 string              `json:"type" validate:"required"`
	StoreID              *string             `json:"storeId"`
	ProductID            *string             `json:"productId"`
	ReportedPrice        decimal.NullDecimal `json:"reportedPrice"`
	ReportedAvailability *bool               `json:"reportedAvailability"`
	Data                 json.RawMessage     `json:"data"`
	Comment              string              `json:"comment" validate:"max=2000"`
	Priority             string              `json:"priority"`
	Severity             *string             `json:"severity"`

	// Stamped by the server. Accepted so older clients are not rejected.
	UserID string `json:"userId"`
	Status string `json:"status"`
}

func (h *ContributionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitContributionRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	in := services.SubmitContributionInput{
		UserID:               helpers.UserIDFromContext(r),
		Type:                 models.ContributionType(req.Type),
		StoreID:              req.StoreID,
		ProductID:            req.ProductID,
		ReportedPrice:        req.ReportedPrice,
		ReportedAvailability: req.ReportedAvailability,
		Data:                 req.Data,
		Comment:              req.Comment,
		Priority:             models.ContributionPriority(req.Priority),
	}
	if req.Severity != nil {
		severity := models.BugSeverity(*req.Severity)
		in.Severity = &severity
	}

	contribution, err := h.contributions.Submit(r.Context(), in)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, contribution)
}

func (h *ContributionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.contributions.ListMine(r.Context(), helpers.UserIDFromContext(r))
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contributions)
}
