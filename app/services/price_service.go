package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AdminPriceKindPrice        = "price"
	AdminPriceKindAvailability = "availability"
)

// AdminPriceInput is a direct price or availability write by an administrator.
// Amount is required for the price kind. IsAvailable defaults to true.
type AdminPriceInput struct {
	Kind        string
	StoreID     string
	ProductID   string
	Amount      decimal.NullDecimal
	IsPromotion bool
	IsAvailable *bool
}

// AddProductInput is a user adding a product to a store's catalog, with an
// optional observed price and an optional note for the moderators.
type AddProductInput struct {
	UserID    string
	StoreID   string
	ProductID string
	Price     decimal.NullDecimal
	Comment   string
}

type PriceWriteResult struct {
	Membership   *models.StoreProduct `json:"membership"`
	Price        *models.Price        `json:"price,omitempty"`
	Contribution *models.Contribution `json:"contribution,omitempty"`
}

type PriceService struct {
	db      *gorm.DB
	catalog CatalogRepos
	cache   cache.ComparisonCache
	log     *logger.Logger
}

func NewPriceService(db *gorm.DB, catalog CatalogRepos, c cache.ComparisonCache, log *logger.Logger) *PriceService {
	return &PriceService{
		db:      db,
		catalog: catalog,
		cache:   c,
		log:     log.With("service", "PriceService"),
	}
}

func (s *PriceService) PricesForStore(ctx context.Context, storeID string) ([]models.Price, error) {
	store, err := s.catalog.Stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}
	prices, err := s.catalog.Prices.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sortPricesByAmount(prices)
	return prices, nil
}

func (s *PriceService) PricesForProduct(ctx context.Context, productID string) ([]models.Price, error) {
	product, err := s.catalog.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	prices, err := s.catalog.Prices.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sortPricesByAmount(prices)
	return prices, nil
}

// AdminUpsert writes the ledger and the membership for the pair in one
// transaction. The availability kind never creates a price row.
func (s *PriceService) AdminUpsert(ctx context.Context, in AdminPriceInput) (*PriceWriteResult, error) {
	switch in.Kind {
	case AdminPriceKindPrice:
		if !in.Amount.Valid {
			return nil, fmt.Errorf("%w: data.price is required", ErrValidation)
		}
		if in.Amount.Decimal.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
	case AdminPriceKindAvailability:
		if in.IsAvailable == nil {
			return nil, fmt.Errorf("%w: data.isAvailable is required", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: type must be %q or %q", ErrValidation, AdminPriceKindPrice, AdminPriceKindAvailability)
	}
	isAvailable := in.IsAvailable == nil || *in.IsAvailable

	var result PriceWriteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.catalog.WithTx(tx)
		if err := requirePairExists(ctx, repos, in.StoreID, in.ProductID); err != nil {
			return err
		}

		var err error
		if in.Kind == AdminPriceKindPrice {
			result.Price, err = repos.Prices.UpsertPrice(ctx, in.StoreID, in.ProductID, in.Amount.Decimal, repositories.PriceOptions{
				IsPromotion: in.IsPromotion,
				IsAvailable: isAvailable,
				Source:      models.PriceSourceAdmin,
			})
			if err != nil {
				return err
			}
		} else {
			if _, err := repos.Prices.SetAvailability(ctx, in.StoreID, in.ProductID, isAvailable); err != nil {
				return err
			}
			if result.Price, err = repos.Prices.FindByPair(ctx, in.StoreID, in.ProductID); err != nil {
				return err
			}
		}

		result.Membership, err = repos.Memberships.EnsureMembership(ctx, in.StoreID, in.ProductID, isAvailable)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, in.ProductID)
	s.log.Info("admin price write", "kind", in.Kind, "storeId", in.StoreID, "productId", in.ProductID)
	return &result, nil
}

// AddProductToStore records that the store carries the product. A supplied
// price goes to the ledger with source "user". A comment is filed as a
// pending add_product_to_store contribution for review.
func (s *PriceService) AddProductToStore(ctx context.Context, in AddProductInput) (*PriceWriteResult, error) {
	if in.UserID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId is required", ErrValidation)
	}
	if in.Price.Valid && in.Price.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	var result PriceWriteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.catalog.WithTx(tx)
		if err := requirePairExists(ctx, repos, in.StoreID, in.ProductID); err != nil {
			return err
		}

		membership, _, err := repos.Memberships.CreateIfMissing(ctx, in.StoreID, in.ProductID, true)
		if err != nil {
			return err
		}
		result.Membership = membership

		if in.Price.Valid {
			result.Price, err = repos.Prices.UpsertPrice(ctx, in.StoreID, in.ProductID, in.Price.Decimal, repositories.PriceOptions{
				IsAvailable: true,
				Source:      models.PriceSourceUser,
			})
			if err != nil {
				return err
			}
		}

		if comment := strings.TrimSpace(in.Comment); comment != "" {
			storeID, productID := in.StoreID, in.ProductID
			c := &models.Contribution{
				UserID:        in.UserID,
				StoreID:       &storeID,
				ProductID:     &productID,
				Type:          models.ContributionAddProductToStore,
				ReportedPrice: in.Price,
				Data:          datatypes.JSON("{}"),
				Comment:       comment,
				Status:        models.StatusPending,
			}
			if err := repos.Contributions.Create(ctx, c); err != nil {
				return err
			}
			result.Contribution = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, in.ProductID)
	s.log.Info("product added to store", "storeId", in.StoreID, "productId", in.ProductID, "userId", in.UserID)
	return &result, nil
}

func (s *PriceService) invalidate(ctx context.Context, productIDs ...string) {
	if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
		s.log.Warn("comparison cache invalidation failed", "productIds", productIDs, "error", err)
	}
}

func requirePairExists(ctx context.Context, repos CatalogRepos, storeID, productID string) error {
	store, err := repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	return nil
}

func sortPricesByAmount(prices []models.Price) {
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Amount.LessThan(prices[j].Amount)
	})
}
