package services

import (
	"context"
	"sync"
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/db/testdb"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/format"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]repositories.Offer
	generations map[string]int64
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]repositories.Offer{}, generations: map[string]int64{}}
}

func (c *memoryCache) Get(_ context.Context, productID string) ([]repositories.Offer, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offers, ok := c.entries[productID]
	return offers, ok, nil
}

func (c *memoryCache) Generation(_ context.Context, productID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[productID], nil
}

func (c *memoryCache) Set(_ context.Context, productID string, gen int64, offers []repositories.Offer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[productID] == gen {
		c.entries[productID] = offers
	}
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		c.generations[id]++
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	db      *gorm.DB
	catalog CatalogRepos
	votes   repositories.VoteRepository
	ratings repositories.StoreRatingRepository
	cache   *memoryCache

	contributions *ContributionService
	comparison    *ComparisonService
	cascade       *CascadeService
	prices        *PriceService
	feedback      *FeedbackService
	applier       *Applier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	log := logger.NewNop()
	catalog := NewCatalogRepos(db)
	votes := repositories.NewVoteRepository(db)
	ratings := repositories.NewStoreRatingRepository(db)
	c := newMemoryCache()
	applier := NewApplier(log)

	return &fixture{
		t:             t,
		ctx:           context.Background(),
		db:            db,
		catalog:       catalog,
		votes:         votes,
		ratings:       ratings,
		cache:         c,
		applier:       applier,
		contributions: NewContributionService(db, catalog, applier, c, log),
		comparison:    NewComparisonService(repositories.NewOfferRepository(db), catalog.Products, c, format.NewMoney("€"), log),
		cascade:       NewCascadeService(db, catalog, votes, ratings, c, log),
		prices:        NewPriceService(db, catalog, c, log),
		feedback:      NewFeedbackService(votes, ratings, catalog.Memberships, catalog.Stores, c, log),
	}
}

func (f *fixture) store(name string, lat, lng float64) *models.Store {
	f.t.Helper()
	store := &models.Store{
		Name:      name,
		Latitude:  decimal.NewFromFloat(lat),
		Longitude: decimal.NewFromFloat(lng),
		IsActive:  true,
	}
	require.NoError(f.t, f.catalog.Stores.Create(f.ctx, store))
	return store
}

func (f *fixture) product(name string) *models.Product {
	f.t.Helper()
	product := &models.Product{Name: name, IsActive: true}
	require.NoError(f.t, f.catalog.Products.Create(f.ctx, product))
	return product
}

func (f *fixture) category(name string) *models.Category {
	f.t.Helper()
	category := &models.Category{Name: name, Slug: format.Slug(name)}
	require.NoError(f.t, f.db.Create(category).Error)
	return category
}

func (f *fixture) price(storeID, productID, amount string, available bool) *models.Price {
	f.t.Helper()
	p, err := f.catalog.Prices.UpsertPrice(f.ctx, storeID, productID, decimal.RequireFromString(amount), repositories.PriceOptions{
		IsAvailable: available,
		Source:      models.PriceSourceAdmin,
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) member(storeID, productID string) *models.StoreProduct {
	f.t.Helper()
	sp, err := f.catalog.Memberships.EnsureMembership(f.ctx, storeID, productID, true)
	require.NoError(f.t, err)
	return sp
}

func (f *fixture) count(model interface{}, where string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}
