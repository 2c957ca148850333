package services

import (
	"context"
	"fmt"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"gorm.io/gorm"
)

// CascadeReport counts the rows removed by one cascade delete.
type CascadeReport struct {
	Contributions int64 `json:"contributions"`
	Votes         int64 `json:"votes"`
	Ratings       int64 `json:"ratings"`
	Prices        int64 `json:"prices"`
	Memberships   int64 `json:"memberships"`
	Stores        int64 `json:"stores"`
	Products      int64 `json:"products"`
}

type cascadeRepos struct {
	contributions repositories.ContributionRepository
	votes         repositories.VoteRepository
	ratings       repositories.StoreRatingRepository
	prices        repositories.PriceRepository
	memberships   repositories.StoreProductRepository
	stores        repositories.StoreRepositoryImpl
	products      repositories.ProductRepositoryImpl
}

func (r cascadeRepos) withTx(tx *gorm.DB) cascadeRepos {
	return cascadeRepos{
		contributions: r.contributions.WithTx(tx),
		votes:         r.votes.WithTx(tx),
		ratings:       r.ratings.WithTx(tx),
		prices:        r.prices.WithTx(tx),
		memberships:   r.memberships.WithTx(tx),
		stores:        r.stores.WithTx(tx),
		products:      r.products.WithTx(tx),
	}
}

// CascadeService removes stores, products and store/product pairs together
// with every row that references them. Each delete is one transaction.
type CascadeService struct {
	db    *gorm.DB
	repos cascadeRepos
	cache cache.ComparisonCache
	log   *logger.Logger
}

func NewCascadeService(db *gorm.DB, catalog CatalogRepos, votes repositories.VoteRepository, ratings repositories.StoreRatingRepository, c cache.ComparisonCache, log *logger.Logger) *CascadeService {
	return &CascadeService{
		db: db,
		repos: cascadeRepos{
			contributions: catalog.Contributions,
			votes:         votes,
			ratings:       ratings,
			prices:        catalog.Prices,
			memberships:   catalog.Memberships,
			stores:        catalog.Stores,
			products:      catalog.Products,
		},
		cache: c,
		log:   log.With("service", "CascadeService"),
	}
}

// DeleteStore removes contributions, votes, ratings, prices and memberships
// of the store, then the store.
func (s *CascadeService) DeleteStore(ctx context.Context, storeID string) (CascadeReport, error) {
	var (
		report   CascadeReport
		affected []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		store, err := r.stores.GetByID(ctx, storeID)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("%w: store %s", ErrNotFound, storeID)
		}

		if affected, err = r.memberships.ProductIDsByStore(ctx, storeID); err != nil {
			return err
		}
		if report.Contributions, err = r.contributions.DeleteByStore(ctx, storeID); err != nil {
			return fmt.Errorf("delete contributions: %w", err)
		}
		if report.Votes, err = r.votes.DeleteByStore(ctx, storeID); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if report.Ratings, err = r.ratings.DeleteByStore(ctx, storeID); err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		if report.Prices, err = r.prices.DeleteByStore(ctx, storeID); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		if report.Memberships, err = r.memberships.DeleteByStore(ctx, storeID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if report.Stores, err = r.stores.Delete(ctx, storeID); err != nil {
			return fmt.Errorf("delete store: %w", err)
		}
		return nil
	})
	if err != nil {
		return CascadeReport{}, err
	}

	s.invalidate(ctx, affected...)
	s.log.Info("store deleted", "storeId", storeID, "report", report)
	return report, nil
}

// DeleteProduct mirrors DeleteStore for a product. Ratings belong to stores
// and are left alone.
func (s *CascadeService) DeleteProduct(ctx context.Context, productID string) (CascadeReport, error) {
	var report CascadeReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		product, err := r.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}

		if report.Contributions, err = r.contributions.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete contributions: %w", err)
		}
		if report.Votes, err = r.votes.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if report.Prices, err = r.prices.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		if report.Memberships, err = r.memberships.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if report.Products, err = r.products.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return CascadeReport{}, err
	}

	s.invalidate(ctx, productID)
	s.log.Info("product deleted", "productId", productID, "report", report)
	return report, nil
}

// DeleteStoreProductPair removes prices, contributions and votes scoped to
// the pair, then the membership.
func (s *CascadeService) DeleteStoreProductPair(ctx context.Context, storeID, productID string) (CascadeReport, error) {
	var report CascadeReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		membership, err := r.memberships.FindByPair(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if membership == nil {
			return fmt.Errorf("%w: store %s does not carry product %s", ErrNotFound, storeID, productID)
		}

		if report.Prices, err = r.prices.DeleteByPair(ctx, storeID, productID); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		if report.Contributions, err = r.contributions.DeleteByPair(ctx, storeID, productID); err != nil {
			return fmt.Errorf("delete contributions: %w", err)
		}
		if report.Votes, err = r.votes.DeleteByPair(ctx, storeID, productID); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if report.Memberships, err = r.memberships.Remove(ctx, storeID, productID); err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return CascadeReport{}, err
	}

	s.invalidate(ctx, productID)
	s.log.Info("product removed from store", "storeId", storeID, "productId", productID, "report", report)
	return report, nil
}

func (s *CascadeService) invalidate(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
		s.log.Warn("comparison cache invalidation failed", "productIds", productIDs, "error", err)
	}
}
