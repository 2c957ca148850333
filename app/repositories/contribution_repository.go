package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
)

type ContributionFilter struct {
	Status   models.ContributionStatus
	Type     models.ContributionType
	Priority models.ContributionPriority
	Severity models.BugSeverity
	UserID   string
}

// ReviewStamp is written together with a status change.
type ReviewStamp struct {
	ReviewerID    string
	ReviewedAt    time.Time
	AdminNotes    *string
	AdminResponse *string
}

type ContributionRepository interface {
	WithTx(tx *gorm.DB) ContributionRepository
	Create(ctx context.Context, c *models.Contribution) error
	FindByID(ctx context.Context, id string) (*models.Contribution, error)
	List(ctx context.Context, filter ContributionFilter) ([]models.Contribution, error)
	Transition(ctx context.Context, id string, to models.ContributionStatus, stamp ReviewStamp) error
	BulkTransition(ctx context.Context, ids []string, to models.ContributionStatus, stamp ReviewStamp) (int64, error)
	SetResolved(ctx context.Context, id string, resolved bool, adminResponse *string) error
	LinkCreatedEntity(ctx context.Context, id string, storeID, productID *string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	DeleteByPair(ctx context.Context, storeID, productID string) (int64, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type contributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) WithTx(tx *gorm.DB) ContributionRepository {
	return &contributionRepository{db: tx}
}

func (r *contributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contributionRepository) FindByID(ctx context.Context, id string) (*models.Contribution, error) {
	var c models.Contribution
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// List returns newest first. Without a status filter, soft-deleted rows are
// left out.
func (r *contributionRepository) List(ctx context.Context, filter ContributionFilter) ([]models.Contribution, error) {
	query := r.db.WithContext(ctx).Model(&models.Contribution{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status <> ?", models.StatusDeleted)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var out []models.Contribution
	err := query.Order("created_at DESC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *contributionRepository) Transition(ctx context.Context, id string, to models.ContributionStatus, stamp ReviewStamp) error {
	res := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("id = ?", id).
		Updates(stampColumns(to, stamp))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BulkTransition moves every listed contribution whose current status may
// legally reach `to` in one statement. Rows already at `to` or unable to
// reach it are left alone.
func (r *contributionRepository) BulkTransition(ctx context.Context, ids []string, to models.ContributionStatus, stamp ReviewStamp) (int64, error) {
	sources := models.TransitionSources(to)
	if len(ids) == 0 || len(sources) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("id IN ? AND status IN ?", ids, sources).
		Updates(stampColumns(to, stamp))
	return res.RowsAffected, res.Error
}

func (r *contributionRepository) SetResolved(ctx context.Context, id string, resolved bool, adminResponse *string) error {
	cols := map[string]interface{}{"is_resolved": resolved}
	if adminResponse != nil {
		cols["admin_response"] = *adminResponse
	}
	return r.db.WithContext(ctx).Model(&models.Contribution{}).Where("id = ?", id).Updates(cols).Error
}

// LinkCreatedEntity records the store or product an approved contribution
// created.
func (r *contributionRepository) LinkCreatedEntity(ctx context.Context, id string, storeID, productID *string) error {
	cols := map[string]interface{}{}
	if storeID != nil {
		cols["store_id"] = *storeID
	}
	if productID != nil {
		cols["product_id"] = *productID
	}
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Contribution{}).Where("id = ?", id).Updates(cols).Error
}

func (r *contributionRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Contribution{})
	return res.RowsAffected, res.Error
}

func (r *contributionRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.Contribution{})
	return res.RowsAffected, res.Error
}

func (r *contributionRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Contribution{})
	return res.RowsAffected, res.Error
}

func (r *contributionRepository) DeleteByPair(ctx context.Context, storeID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ? AND product_id = ?", storeID, productID).Delete(&models.Contribution{})
	return res.RowsAffected, res.Error
}

func (r *contributionRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.StatusDeleted, cutoff).
		Delete(&models.Contribution{})
	return res.RowsAffected, res.Error
}

func stampColumns(to models.ContributionStatus, stamp ReviewStamp) map[string]interface{} {
	cols := map[string]interface{}{
		"status":      to,
		"reviewed_by": stamp.ReviewerID,
		"reviewed_at": stamp.ReviewedAt,
	}
	if stamp.AdminNotes != nil {
		cols["admin_notes"] = *stamp.AdminNotes
	}
	if stamp.AdminResponse != nil {
		cols["admin_response"] = *stamp.AdminResponse
	}
	return cols
}
