package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/geo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubmitContributionInput struct {
	UserID               string
	Type                 models.ContributionType
	StoreID              *string
	ProductID            *string
	ReportedPrice        decimal.NullDecimal
	ReportedAvailability *bool
	Data                 json.RawMessage
	Comment              string
	Priority             models.ContributionPriority
	Severity             *models.BugSeverity
}

// ReviewInput carries the optional notes an administrator attaches to a
// review action. AdminNotes stay internal, AdminResponse is shown to the user.
type ReviewInput struct {
	AdminNotes    *string
	AdminResponse *string
}

type ContributionService struct {
	db      *gorm.DB
	repo    repositories.ContributionRepository
	catalog CatalogRepos
	applier *Applier
	cache   cache.ComparisonCache
	log     *logger.Logger
	now     func() time.Time
}

func NewContributionService(db *gorm.DB, catalog CatalogRepos, applier *Applier, c cache.ComparisonCache, log *logger.Logger) *ContributionService {
	return &ContributionService{
		db:      db,
		repo:    catalog.Contributions,
		catalog: catalog,
		applier: applier,
		cache:   c,
		log:     log.With("service", "ContributionService"),
		now:     time.Now,
	}
}

// Submit validates and stores a new contribution. It always starts pending.
func (s *ContributionService) Submit(ctx context.Context, in SubmitContributionInput) (*models.Contribution, error) {
	if in.UserID == "" {
		return nil, ErrUnauthorized
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown contribution type %q", ErrValidation, in.Type)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if in.Severity != nil {
		if !in.Type.CarriesSeverity() {
			return nil, fmt.Errorf("%w: severity only applies to %s and %s", ErrValidation, models.ContributionBugReport, models.ContributionBoth)
		}
		if !in.Severity.Valid() {
			return nil, fmt.Errorf("%w: unknown severity %q", ErrValidation, *in.Severity)
		}
	}
	if in.ReportedPrice.Valid && in.ReportedPrice.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: reportedPrice must not be negative", ErrValidation)
	}
	in.StoreID = trimOptional(in.StoreID)
	in.ProductID = trimOptional(in.ProductID)

	payload, err := models.DecodePayload(in.Type, in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrValidation, err)
	}
	if err := s.validatePayload(ctx, in, payload); err != nil {
		return nil, err
	}
	data, err := models.EncodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	contribution := &models.Contribution{
		UserID:               in.UserID,
		StoreID:              in.StoreID,
		ProductID:            in.ProductID,
		Type:                 in.Type,
		ReportedPrice:        in.ReportedPrice,
		ReportedAvailability: in.ReportedAvailability,
		Data:                 data,
		Comment:              strings.TrimSpace(in.Comment),
		Status:               models.StatusPending,
		Priority:             in.Priority,
		Severity:             in.Severity,
	}
	if err := s.repo.Create(ctx, contribution); err != nil {
		return nil, fmt.Errorf("create contribution: %w", err)
	}
	s.log.Info("contribution submitted", "contributionId", contribution.ID, "type", contribution.Type, "userId", contribution.UserID)
	return contribution, nil
}

func (s *ContributionService) validatePayload(ctx context.Context, in SubmitContributionInput, payload models.ContributionPayload) error {
	switch p := payload.(type) {
	case models.PriceUpdatePayload:
		if !in.ReportedPrice.Valid {
			return fmt.Errorf("%w: reportedPrice is required", ErrValidation)
		}
		return s.requirePair(ctx, in)
	case models.AvailabilityPayload:
		if in.ReportedAvailability == nil {
			return fmt.Errorf("%w: reportedAvailability is required", ErrValidation)
		}
		return s.requirePair(ctx, in)
	case models.AddProductToStorePayload:
		return s.requirePair(ctx, in)
	case models.NewProductPayload:
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: data.name is required", ErrValidation)
		}
		if in.StoreID != nil {
			return s.requireStore(ctx, *in.StoreID)
		}
	case models.NewStorePayload:
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: data.name is required", ErrValidation)
		}
		if !p.HasCoordinates() {
			return fmt.Errorf("%w: data.latitude and data.longitude are required", ErrValidation)
		}
		lat, _ := p.Latitude.Decimal.Float64()
		lng, _ := p.Longitude.Decimal.Float64()
		if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
			return fmt.Errorf("%w: coordinates out of range", ErrValidation)
		}
		if p.CategoryID != "" {
			category, err := s.catalog.Categories.GetByID(ctx, p.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("%w: unknown category %s", ErrValidation, p.CategoryID)
			}
		}
	case models.StoreUpdatePayload:
		if in.StoreID == nil {
			return fmt.Errorf("%w: storeId is required", ErrValidation)
		}
		return s.requireStore(ctx, *in.StoreID)
	case models.BugReportPayload:
		if strings.TrimSpace(p.Description) == "" && strings.TrimSpace(in.Comment) == "" {
			return fmt.Errorf("%w: a description is required", ErrValidation)
		}
	}
	return nil
}

func (s *ContributionService) requirePair(ctx context.Context, in SubmitContributionInput) error {
	if in.StoreID == nil || in.ProductID == nil {
		return fmt.Errorf("%w: storeId and productId are required", ErrValidation)
	}
	if err := s.requireStore(ctx, *in.StoreID); err != nil {
		return err
	}
	product, err := s.catalog.Products.GetByID(ctx, *in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, *in.ProductID)
	}
	return nil
}

func (s *ContributionService) requireStore(ctx context.Context, storeID string) error {
	store, err := s.catalog.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}
	return nil
}

func (s *ContributionService) List(ctx context.Context, filter repositories.ContributionFilter) ([]models.Contribution, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, filter.Type)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, filter.Priority)
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrValidation, filter.Severity)
	}
	return s.repo.List(ctx, filter)
}

func (s *ContributionService) ListMine(ctx context.Context, userID string) ([]models.Contribution, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx, repositories.ContributionFilter{UserID: userID})
}

func (s *ContributionService) Get(ctx context.Context, id string) (*models.Contribution, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: contribution %s", ErrNotFound, id)
	}
	return c, nil
}

// Approve applies the contribution to the catalog and marks it approved in
// one transaction. Approving an already approved contribution changes
// nothing.
func (s *ContributionService) Approve(ctx context.Context, id, reviewerID string, in ReviewInput) (*models.Contribution, error) {
	return s.review(ctx, id, models.StatusApproved, reviewerID, in)
}

func (s *ContributionService) Reject(ctx context.Context, id, reviewerID string, in ReviewInput) (*models.Contribution, error) {
	return s.review(ctx, id, models.StatusRejected, reviewerID, in)
}

// SoftDelete marks the contribution deleted. The row stays until purged.
func (s *ContributionService) SoftDelete(ctx context.Context, id, reviewerID string) (*models.Contribution, error) {
	return s.review(ctx, id, models.StatusDeleted, reviewerID, ReviewInput{})
}

func (s *ContributionService) review(ctx context.Context, id string, to models.ContributionStatus, reviewerID string, in ReviewInput) (*models.Contribution, error) {
	if reviewerID == "" {
		return nil, ErrForbidden
	}

	var (
		result  *models.Contribution
		applied ApplyResult
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.catalog.WithTx(tx)

		c, err := repos.Contributions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: contribution %s", ErrNotFound, id)
		}
		if c.Status == to {
			result = c
			return nil
		}
		if !models.CanTransition(c.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
		}

		if to == models.StatusApproved {
			applied, err = s.applier.Apply(ctx, repos, c)
			if err != nil {
				return fmt.Errorf("apply contribution: %w", err)
			}
		}

		stamp := repositories.ReviewStamp{
			ReviewerID:    reviewerID,
			ReviewedAt:    s.now(),
			AdminNotes:    in.AdminNotes,
			AdminResponse: in.AdminResponse,
		}
		if err := repos.Contributions.Transition(ctx, c.ID, to, stamp); err != nil {
			return fmt.Errorf("transition contribution: %w", err)
		}

		result, err = repos.Contributions.FindByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(applied.TouchedProducts) > 0 {
		s.invalidate(ctx, applied.TouchedProducts...)
	}
	s.log.Info("contribution reviewed", "contributionId", id, "status", result.Status, "reviewerId", reviewerID)
	return result, nil
}

// BulkTransition stamps the same status, reviewer and time on every listed
// contribution that can legally reach it. The catalog is never touched, even
// when the target status is approved.
func (s *ContributionService) BulkTransition(ctx context.Context, ids []string, to models.ContributionStatus, reviewerID string, in ReviewInput) (int64, error) {
	if reviewerID == "" {
		return 0, ErrForbidden
	}
	if !to.Valid() || to == models.StatusPending {
		return 0, fmt.Errorf("%w: cannot bulk move to %q", ErrValidation, to)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: contributionIds is required", ErrValidation)
	}

	n, err := s.repo.BulkTransition(ctx, ids, to, repositories.ReviewStamp{
		ReviewerID:    reviewerID,
		ReviewedAt:    s.now(),
		AdminNotes:    in.AdminNotes,
		AdminResponse: in.AdminResponse,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("bulk transition", "status", to, "requested", len(ids), "updated", n, "reviewerId", reviewerID)
	return n, nil
}

// BulkReject rejects pending contributions. A non-empty reason becomes the
// user-visible admin response.
func (s *ContributionService) BulkReject(ctx context.Context, ids []string, reason, reviewerID string) (int64, error) {
	var in ReviewInput
	if reason = strings.TrimSpace(reason); reason != "" {
		in.AdminResponse = &reason
	}
	return s.BulkTransition(ctx, ids, models.StatusRejected, reviewerID, in)
}

// BulkDelete hard-removes the listed contributions whatever their status.
func (s *ContributionService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: contributionIds is required", ErrValidation)
	}
	n, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Info("bulk delete", "requested", len(ids), "deleted", n)
	return n, nil
}

// Resolve sets isResolved on a report-style contribution without touching
// its status.
func (s *ContributionService) Resolve(ctx context.Context, id string, resolved bool, adminResponse *string) (*models.Contribution, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case models.ContributionSupport, models.ContributionBugReport, models.ContributionFeatureRequest, models.ContributionBoth:
	default:
		return nil, fmt.Errorf("%w: %s contributions are not resolvable", ErrValidation, c.Type)
	}
	if err := s.repo.SetResolved(ctx, id, resolved, adminResponse); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// PurgeDeleted hard-removes contributions soft-deleted more than olderThan ago.
func (s *ContributionService) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan < 0 {
		return 0, fmt.Errorf("%w: olderThan must not be negative", ErrValidation)
	}
	n, err := s.repo.PurgeDeletedBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	s.log.Info("purged deleted contributions", "count", n, "olderThan", olderThan.String())
	return n, nil
}

func (s *ContributionService) invalidate(ctx context.Context, productIDs ...string) {
	if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
		s.log.Warn("comparison cache invalidation failed", "productIds", productIDs, "error", err)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
