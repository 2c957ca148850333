package admin

import (
	"context"
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/gorilla/mux"
)

type ReviewRequest struct {
	AdminNotes    *string `json:"adminNotes" validate:"omitempty,max=2000"`
	AdminResponse *string `json:"adminResponse" validate:"omitempty,max=2000"`
}

type ResolveRequest struct {
	IsResolved    *bool   `json:"isResolved"`
	AdminResponse *string `json:"adminResponse" validate:"omitempty,max=2000"`
}

type BulkRequest struct {
	ContributionIDs []string `json:"contributionIds" validate:"required,min=1,dive,required"`
	Reason          string   `json:"reason" validate:"max=2000"`
}

type BulkResponse struct {
	Requested int   `json:"requested"`
	Affected  int64 `json:"affected"`
}

func (h *AdminHandler) ListContributions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ContributionFilter{
		Status:   models.ContributionStatus(q.Get("status")),
		Type:     models.ContributionType(q.Get("type")),
		Priority: models.ContributionPriority(q.Get("priority")),
		Severity: models.BugSeverity(q.Get("severity")),
	}

	contributions, err := h.contributions.List(r.Context(), filter)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contributions)
}

func (h *AdminHandler) GetContribution(w http.ResponseWriter, r *http.Request) {
	contribution, err := h.contributions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contribution)
}

func (h *AdminHandler) ApproveContribution(w http.ResponseWriter, r *http.Request) {
	h.reviewContribution(w, r, h.contributions.Approve)
}

func (h *AdminHandler) RejectContribution(w http.ResponseWriter, r *http.Request) {
	h.reviewContribution(w, r, h.contributions.Reject)
}

type reviewFunc func(ctx context.Context, id, reviewerID string, in services.ReviewInput) (*models.Contribution, error)

func (h *AdminHandler) reviewContribution(w http.ResponseWriter, r *http.Request, review reviewFunc) {
	var req ReviewRequest
	if err := helpers.DecodeJSON(r, &req, true); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	contribution, err := review(r.Context(), mux.Vars(r)["id"], helpers.UserIDFromContext(r), services.ReviewInput{
		AdminNotes:    req.AdminNotes,
		AdminResponse: req.AdminResponse,
	})
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contribution)
}

// ResolveContribution marks a support-style contribution resolved, or
// unresolved when isResolved is false. Omitting isResolved means true.
func (h *AdminHandler) ResolveContribution(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := helpers.DecodeJSON(r, &req, true); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	resolved := req.IsResolved == nil || *req.IsResolved

	contribution, err := h.contributions.Resolve(r.Context(), mux.Vars(r)["id"], resolved, req.AdminResponse)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contribution)
}

func (h *AdminHandler) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	contribution, err := h.contributions.SoftDelete(r.Context(), mux.Vars(r)["id"], helpers.UserIDFromContext(r))
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, contribution)
}

// BulkReject rejects the pending contributions among contributionIds. Others
// are skipped and not counted.
func (h *AdminHandler) BulkReject(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	n, err := h.contributions.BulkReject(r.Context(), req.ContributionIDs, req.Reason, helpers.UserIDFromContext(r))
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, BulkResponse{Requested: len(req.ContributionIDs), Affected: n})
}

func (h *AdminHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := helpers.DecodeJSON(r, &req, false); err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}

	n, err := h.contributions.BulkDelete(r.Context(), req.ContributionIDs)
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, BulkResponse{Requested: len(req.ContributionIDs), Affected: n})
}
