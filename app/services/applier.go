package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/geo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogRepos is the set of repositories an approved contribution may write
// to. WithTx rebinds all of them to one transaction.
type CatalogRepos struct {
	Prices        repositories.PriceRepository
	Memberships   repositories.StoreProductRepository
	Products      repositories.ProductRepositoryImpl
	Stores        repositories.StoreRepositoryImpl
	Contributions repositories.ContributionRepository
	Categories    repositories.CategoryRepositoryImpl
}

func NewCatalogRepos(db *gorm.DB) CatalogRepos {
	return CatalogRepos{
		Prices:        repositories.NewPriceRepository(db),
		Memberships:   repositories.NewStoreProductRepository(db),
		Products:      repositories.NewProductRepository(db),
		Stores:        repositories.NewStoreRepository(db),
		Contributions: repositories.NewContributionRepository(db),
		Categories:    repositories.NewCategoryRepository(db),
	}
}

func (r CatalogRepos) WithTx(tx *gorm.DB) CatalogRepos {
	return CatalogRepos{
		Prices:        r.Prices.WithTx(tx),
		Memberships:   r.Memberships.WithTx(tx),
		Products:      r.Products.WithTx(tx),
		Stores:        r.Stores.WithTx(tx),
		Contributions: r.Contributions.WithTx(tx),
		Categories:    r.Categories.WithTx(tx),
	}
}

// ApplyResult describes what an approved contribution changed. When Applied
// is false, Reason says why nothing happened.
type ApplyResult struct {
	Applied          bool
	Reason           string
	TouchedProducts  []string
	CreatedStoreID   string
	CreatedProductID string
}

func noop(reason string) ApplyResult {
	return ApplyResult{Reason: reason}
}

type Applier struct {
	log *logger.Logger
}

func NewApplier(log *logger.Logger) *Applier {
	return &Applier{log: log.With("service", "Applier")}
}

// Apply mutates the catalog according to an approved contribution. Missing
// or malformed data for a known type, and every unknown type, is a logged
// no-op. Only storage failures are returned as errors.
func (a *Applier) Apply(ctx context.Context, repos CatalogRepos, c *models.Contribution) (ApplyResult, error) {
	log := a.log.With("contributionId", c.ID, "type", c.Type)

	payload, err := c.Payload()
	if err != nil {
		log.Warn("contribution data does not decode, skipping", "error", err)
		return noop("undecodable data"), nil
	}

	var res ApplyResult
	switch p := payload.(type) {
	case models.PriceUpdatePayload:
		res, err = a.applyPriceUpdate(ctx, repos, c, p)
	case models.AddProductToStorePayload:
		res, err = a.applyAddProductToStore(ctx, repos, c)
	case models.AvailabilityPayload:
		res, err = a.applyAvailability(ctx, repos, c)
	case models.NewProductPayload:
		res, err = a.applyNewProduct(ctx, repos, c, p)
	case models.NewStorePayload:
		res, err = a.applyNewStore(ctx, repos, c, p)
	case models.StoreUpdatePayload, models.BugReportPayload, models.FeatureRequestPayload,
		models.SupportPayload, models.BothPayload:
		res = noop("type carries no catalog change")
	case models.UnknownPayload:
		log.Warn("unknown contribution type, skipping")
		return noop("unknown type"), nil
	default:
		log.Warn("unhandled payload variant, skipping", "variant", fmt.Sprintf("%T", p))
		return noop("unhandled payload"), nil
	}
	if err != nil {
		return ApplyResult{}, err
	}

	if res.Applied {
		log.Info("contribution applied", "touchedProducts", res.TouchedProducts)
	} else {
		log.Info("contribution approved without catalog change", "reason", res.Reason)
	}
	return res, nil
}

func (a *Applier) applyPriceUpdate(ctx context.Context, repos CatalogRepos, c *models.Contribution, p models.PriceUpdatePayload) (ApplyResult, error) {
	if c.StoreID == nil || c.ProductID == nil || !c.ReportedPrice.Valid {
		return noop("missing store, product or reported price"), nil
	}
	if c.ReportedPrice.Decimal.IsNegative() {
		return noop("negative reported price"), nil
	}

	isAvailable := c.ReportedAvailability == nil || *c.ReportedAvailability
	_, err := repos.Prices.UpsertPrice(ctx, *c.StoreID, *c.ProductID, c.ReportedPrice.Decimal, repositories.PriceOptions{
		IsPromotion: p.IsPromotion,
		IsAvailable: isAvailable,
		Source:      models.PriceSourceContribution,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNegativePrice) {
			return noop("negative reported price"), nil
		}
		return ApplyResult{}, fmt.Errorf("upsert price: %w", err)
	}
	if _, err := repos.Memberships.EnsureMembership(ctx, *c.StoreID, *c.ProductID, isAvailable); err != nil {
		return ApplyResult{}, fmt.Errorf("ensure membership: %w", err)
	}
	return ApplyResult{Applied: true, TouchedProducts: []string{*c.ProductID}}, nil
}

func (a *Applier) applyAddProductToStore(ctx context.Context, repos CatalogRepos, c *models.Contribution) (ApplyResult, error) {
	if c.StoreID == nil || c.ProductID == nil {
		return noop("missing store or product"), nil
	}
	_, created, err := repos.Memberships.CreateIfMissing(ctx, *c.StoreID, *c.ProductID, true)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("create membership: %w", err)
	}
	if !created {
		return noop("membership already exists"), nil
	}
	return ApplyResult{Applied: true, TouchedProducts: []string{*c.ProductID}}, nil
}

// applyAvailability updates an existing membership and the price row for the
// same pair, if any. It never creates either.
func (a *Applier) applyAvailability(ctx context.Context, repos CatalogRepos, c *models.Contribution) (ApplyResult, error) {
	if c.StoreID == nil || c.ProductID == nil || c.ReportedAvailability == nil {
		return noop("missing store, product or reported availability"), nil
	}
	membership, err := repos.Memberships.FindByPair(ctx, *c.StoreID, *c.ProductID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("find membership: %w", err)
	}
	if membership == nil {
		return noop("store does not carry product"), nil
	}

	available := *c.ReportedAvailability
	if _, err := repos.Memberships.SetAvailability(ctx, membership.ID, available); err != nil {
		return ApplyResult{}, fmt.Errorf("set membership availability: %w", err)
	}
	if _, err := repos.Prices.SetAvailability(ctx, *c.StoreID, *c.ProductID, available); err != nil {
		return ApplyResult{}, fmt.Errorf("set price availability: %w", err)
	}
	return ApplyResult{Applied: true, TouchedProducts: []string{*c.ProductID}}, nil
}

func (a *Applier) applyNewProduct(ctx context.Context, repos CatalogRepos, c *models.Contribution, p models.NewProductPayload) (ApplyResult, error) {
	if p.Name == "" {
		return noop("missing product name"), nil
	}

	product := &models.Product{
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Unit:     p.Unit,
		Image:    p.Image,
		IsActive: true,
	}
	if p.Barcode != "" {
		existing, err := repos.Products.GetByBarcode(ctx, p.Barcode)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("find product by barcode: %w", err)
		}
		if existing != nil {
			return noop("barcode already registered"), nil
		}
		barcode := p.Barcode
		product.Barcode = &barcode
	}
	if err := repos.Products.Create(ctx, product); err != nil {
		return ApplyResult{}, fmt.Errorf("create product: %w", err)
	}

	if c.StoreID != nil {
		if _, err := repos.Memberships.EnsureMembership(ctx, *c.StoreID, product.ID, true); err != nil {
			return ApplyResult{}, fmt.Errorf("create membership: %w", err)
		}
	}
	if err := repos.Contributions.LinkCreatedEntity(ctx, c.ID, nil, &product.ID); err != nil {
		return ApplyResult{}, fmt.Errorf("link product: %w", err)
	}
	c.ProductID = &product.ID

	return ApplyResult{
		Applied:          true,
		TouchedProducts:  []string{product.ID},
		CreatedProductID: product.ID,
	}, nil
}

// applyNewStore refuses to place a store without usable coordinates.
func (a *Applier) applyNewStore(ctx context.Context, repos CatalogRepos, c *models.Contribution, p models.NewStorePayload) (ApplyResult, error) {
	if p.Name == "" {
		return noop("missing store name"), nil
	}
	if !p.HasCoordinates() {
		return noop("missing coordinates"), nil
	}
	lat, _ := p.Latitude.Decimal.Float64()
	lng, _ := p.Longitude.Decimal.Float64()
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return noop("coordinates out of range"), nil
	}

	brand := p.Brand
	if brand == "" {
		brand = p.Name
	}
	store := &models.Store{
		Name:         p.Name,
		Brand:        brand,
		Address:      p.Address,
		City:         p.City,
		PostalCode:   p.PostalCode,
		Latitude:     p.Latitude.Decimal,
		Longitude:    p.Longitude.Decimal,
		Phone:        p.Phone,
		OpeningHours: datatypes.NewJSONType(p.OpeningHours),
		IsActive:     true,
	}
	if p.CategoryID != "" {
		category, err := repos.Categories.GetByID(ctx, p.CategoryID)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("load category: %w", err)
		}
		if category != nil {
			store.CategoryID = &category.ID
		} else {
			a.log.Warn("dropping unknown category from new store", "contributionId", c.ID, "categoryId", p.CategoryID)
		}
	}
	if err := repos.Stores.Create(ctx, store); err != nil {
		return ApplyResult{}, fmt.Errorf("create store: %w", err)
	}
	if err := repos.Contributions.LinkCreatedEntity(ctx, c.ID, &store.ID, nil); err != nil {
		return ApplyResult{}, fmt.Errorf("link store: %w", err)
	}
	c.StoreID = &store.ID

	return ApplyResult{Applied: true, CreatedStoreID: store.ID}, nil
}
