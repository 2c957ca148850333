package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/geo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	weekdays  = map[string]bool{
		"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
	}
)

type StoreInput struct {
	Name         string
	Brand        string
	CategoryID   string
	Address      string
	City         string
	PostalCode   string
	Latitude     decimal.NullDecimal
	Longitude    decimal.NullDecimal
	Phone        string
	OpeningHours models.OpeningHours
	IsActive     *bool
}

type StoreDetail struct {
	*models.Store
	Rating repositories.RatingSummary `json:"rating"`
}

type StoreService struct {
	stores      repositories.StoreRepositoryImpl
	categories  repositories.CategoryRepositoryImpl
	ratings     repositories.StoreRatingRepository
	memberships repositories.StoreProductRepository
	cache       cache.ComparisonCache
	log         *logger.Logger
}

func NewStoreService(stores repositories.StoreRepositoryImpl, categories repositories.CategoryRepositoryImpl, ratings repositories.StoreRatingRepository, memberships repositories.StoreProductRepository, c cache.ComparisonCache, log *logger.Logger) *StoreService {
	return &StoreService{
		stores:      stores,
		categories:  categories,
		ratings:     ratings,
		memberships: memberships,
		cache:       c,
		log:         log.With("service", "StoreService"),
	}
}

func (s *StoreService) Create(ctx context.Context, in StoreInput) (*models.Store, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	store := &models.Store{IsActive: true}
	applyStoreInput(store, in)

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	s.log.Info("store created", "storeId", store.ID, "name", store.Name)
	return store, nil
}

func (s *StoreService) Update(ctx context.Context, id string, in StoreInput) (*models.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, id)
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	applyStoreInput(store, in)
	store.Category = nil

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}

	productIDs, err := s.memberships.ProductIDsByStore(ctx, id)
	if err != nil {
		s.log.Warn("could not list store products for cache invalidation", "storeId", id, "error", err)
	} else if len(productIDs) > 0 {
		if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
			s.log.Warn("comparison cache invalidation failed", "storeId", id, "error", err)
		}
	}
	return s.stores.GetByID(ctx, id)
}

func (s *StoreService) Get(ctx context.Context, id string) (*StoreDetail, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, id)
	}
	summary, err := s.ratings.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StoreDetail{Store: store, Rating: summary}, nil
}

func (s *StoreService) List(ctx context.Context, filter repositories.StoreFilter, page, limit int) ([]models.Store, int64, error) {
	limit, offset := paginate(page, limit)
	return s.stores.List(ctx, filter, limit, offset)
}

func (s *StoreService) validate(ctx context.Context, in StoreInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return fmt.Errorf("%w: categoryId is required", ErrValidation)
	}
	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: category %s does not exist", ErrValidation, in.CategoryID)
	}
	if !in.Latitude.Valid || !in.Longitude.Valid {
		return fmt.Errorf("%w: latitude and longitude are required", ErrValidation)
	}
	lat, _ := in.Latitude.Decimal.Float64()
	lng, _ := in.Longitude.Decimal.Float64()
	if !(geo.Point{Lat: lat, Lng: lng}).Valid() {
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	return ValidateOpeningHours(in.OpeningHours)
}

// ValidateOpeningHours accepts lower-case English weekdays mapped to
// "HH:MM" intervals whose open time precedes the close time.
func ValidateOpeningHours(hours models.OpeningHours) error {
	for day, ranges := range hours {
		if !weekdays[day] {
			return fmt.Errorf("%w: openingHours: unknown day %q", ErrValidation, day)
		}
		for _, r := range ranges {
			if !clockTime.MatchString(r.Open) || !clockTime.MatchString(r.Close) {
				return fmt.Errorf("%w: openingHours.%s: times must be HH:MM", ErrValidation, day)
			}
			if r.Open >= r.Close {
				return fmt.Errorf("%w: openingHours.%s: %s is not before %s", ErrValidation, day, r.Open, r.Close)
			}
		}
	}
	return nil
}

func applyStoreInput(store *models.Store, in StoreInput) {
	categoryID := strings.TrimSpace(in.CategoryID)
	store.Name = strings.TrimSpace(in.Name)
	store.Brand = strings.TrimSpace(in.Brand)
	store.CategoryID = &categoryID
	store.Address = in.Address
	store.City = in.City
	store.PostalCode = in.PostalCode
	store.Latitude = in.Latitude.Decimal
	store.Longitude = in.Longitude.Decimal
	store.Phone = in.Phone
	store.OpeningHours = datatypes.NewJSONType(in.OpeningHours)
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
}

func paginate(page, limit int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// PageSize is the effective page size for a requested limit.
func PageSize(limit int) int {
	size, _ := paginate(1, limit)
	return size
}
