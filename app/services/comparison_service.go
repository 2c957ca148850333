package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/format"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/geo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ComparisonRow is one store offering the compared product.
type ComparisonRow struct {
	MembershipID   string           `json:"membershipId"`
	StoreID        string           `json:"storeId"`
	ProductID      string           `json:"productId"`
	StoreName      string           `json:"storeName"`
	StoreBrand     string           `json:"storeBrand"`
	StoreAddress   string           `json:"storeAddress"`
	StoreCity      string           `json:"storeCity"`
	Latitude       decimal.Decimal  `json:"latitude"`
	Longitude      decimal.Decimal  `json:"longitude"`
	HasPrice       bool             `json:"hasPrice"`
	Price          *decimal.Decimal `json:"price"`
	FormattedPrice string           `json:"formattedPrice,omitempty"`
	IsPromotion    bool             `json:"isPromotion"`
	IsAvailable    bool             `json:"isAvailable"`
	Source         string           `json:"source,omitempty"`
	LastUpdated    *time.Time       `json:"lastUpdated,omitempty"`
	DistanceKm     *float64         `json:"distance,omitempty"`
}

type Comparison struct {
	Product *models.Product `json:"product"`
	Rows    []ComparisonRow `json:"rows"`
}

type ComparisonService struct {
	offers   repositories.OfferRepository
	products repositories.ProductRepositoryImpl
	cache    cache.ComparisonCache
	money    *format.Money
	group    singleflight.Group
	log      *logger.Logger
}

func NewComparisonService(offers repositories.OfferRepository, products repositories.ProductRepositoryImpl, c cache.ComparisonCache, money *format.Money, log *logger.Logger) *ComparisonService {
	return &ComparisonService{
		offers:   offers,
		products: products,
		cache:    c,
		money:    money,
		log:      log.With("service", "ComparisonService"),
	}
}

// Compare ranks every active store carrying productID. Distances are filled
// in only when observer is non-nil.
func (s *ComparisonService) Compare(ctx context.Context, productID string, observer *geo.Point) (*Comparison, error) {
	if observer != nil && !observer.Valid() {
		return nil, fmt.Errorf("%w: observer coordinates out of range", ErrValidation)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	offers, err := s.loadOffers(ctx, productID)
	if err != nil {
		return nil, err
	}

	rows := make([]ComparisonRow, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, s.toRow(o, observer))
	}
	RankRows(rows)

	return &Comparison{Product: product, Rows: rows}, nil
}

// fillTimeout bounds a shared cache fill, which outlives the request that
// started it.
const fillTimeout = 10 * time.Second

func (s *ComparisonService) loadOffers(ctx context.Context, productID string) ([]repositories.Offer, error) {
	if offers, ok, err := s.cache.Get(ctx, productID); err != nil {
		s.log.Warn("comparison cache read failed", "productId", productID, "error", err)
	} else if ok {
		return offers, nil
	}

	ch := s.group.DoChan(productID, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()
		return s.fill(fillCtx, productID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load offers: %w", res.Err)
		}
		return res.Val.([]repositories.Offer), nil
	}
}

// fill reads the generation before the offers so an invalidation committed
// in between makes the cache write a no-op.
func (s *ComparisonService) fill(ctx context.Context, productID string) ([]repositories.Offer, error) {
	gen, genErr := s.cache.Generation(ctx, productID)
	if genErr != nil {
		s.log.Warn("comparison cache generation read failed", "productId", productID, "error", genErr)
	}
	offers, err := s.offers.OffersForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return offers, nil
	}
	if err := s.cache.Set(ctx, productID, gen, offers); err != nil {
		s.log.Warn("comparison cache write failed", "productId", productID, "error", err)
	}
	return offers, nil
}

func (s *ComparisonService) toRow(o repositories.Offer, observer *geo.Point) ComparisonRow {
	row := ComparisonRow{
		MembershipID: o.MembershipID,
		StoreID:      o.StoreID,
		ProductID:    o.ProductID,
		StoreName:    o.StoreName,
		StoreBrand:   o.StoreBrand,
		StoreAddress: o.StoreAddress,
		StoreCity:    o.StoreCity,
		Latitude:     o.StoreLatitude,
		Longitude:    o.StoreLongitude,
		HasPrice:     o.PriceID != nil,
		IsAvailable:  true,
	}
	if row.HasPrice {
		if o.Amount.Valid {
			amount := o.Amount.Decimal
			row.Price = &amount
			row.FormattedPrice = s.money.Format(amount)
		}
		if o.IsPromotion != nil {
			row.IsPromotion = *o.IsPromotion
		}
		if o.PriceAvailable != nil {
			row.IsAvailable = *o.PriceAvailable
		}
		if o.Source != nil {
			row.Source = *o.Source
		}
		row.LastUpdated = o.LastUpdated
	}
	if observer != nil {
		lat, _ := o.StoreLatitude.Float64()
		lng, _ := o.StoreLongitude.Float64()
		d := observer.DistanceTo(geo.Point{Lat: lat, Lng: lng})
		row.DistanceKm = &d
	}
	return row
}

// RankRows sorts in place: available first, then priced before unpriced,
// then cheapest, then rows with a known distance nearest first. Remaining
// ties keep their input order.
func RankRows(rows []ComparisonRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rankLess(rows[i], rows[j])
	})
}

func rankLess(a, b ComparisonRow) bool {
	if a.IsAvailable != b.IsAvailable {
		return a.IsAvailable
	}
	aPriced, bPriced := a.Price != nil, b.Price != nil
	if aPriced != bPriced {
		return aPriced
	}
	if aPriced && !a.Price.Equal(*b.Price) {
		return a.Price.LessThan(*b.Price)
	}
	switch {
	case a.DistanceKm != nil && b.DistanceKm == nil:
		return true
	case a.DistanceKm == nil || b.DistanceKm == nil:
		return false
	}
	return *a.DistanceKm < *b.DistanceKm
}
