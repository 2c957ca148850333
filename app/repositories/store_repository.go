package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
)

type StoreFilter struct {
	City       string
	CategoryID string
	ActiveOnly bool
}

type StoreRepositoryImpl interface {
	WithTx(tx *gorm.DB) StoreRepositoryImpl
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	List(ctx context.Context, filter StoreFilter, limit, offset int) ([]models.Store, int64, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id string) (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepositoryImpl {
	return &storeRepository{db: db}
}

func (r *storeRepository) WithTx(tx *gorm.DB) StoreRepositoryImpl {
	return &storeRepository{db: tx}
}

func (r *storeRepository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Preload("Category").First(&store, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context, filter StoreFilter, limit, offset int) ([]models.Store, int64, error) {
	var stores []models.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Store{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(filter.City))
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Category").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&stores).Error

	return stores, total, err
}

func (r *storeRepository) Update(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Omit("Category").Save(store).Error
}

func (r *storeRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
