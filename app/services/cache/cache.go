// Package cache holds the comparison row cache. Entries are the raw joined
// offers for a product; ranking and distance are computed per request.
//
// Every product carries a generation that Invalidate bumps. A fill reads the
// generation before loading from the database and passes it to Set, which
// drops the write when the generation moved in between.
package cache

import (
	"context"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
)

type ComparisonCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, productID string) (offers []repositories.Offer, ok bool, err error)
	// Generation returns the current generation of productID, zero if it was
	// never invalidated.
	Generation(ctx context.Context, productID string) (int64, error)
	// Set stores offers only while productID is still at generation gen.
	Set(ctx context.Context, productID string, gen int64, offers []repositories.Offer) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

type noop struct{}

// NewNoop returns a cache that never hits.
func NewNoop() ComparisonCache { return noop{} }

func (noop) Get(context.Context, string) ([]repositories.Offer, bool, error) { return nil, false, nil }

func (noop) Generation(context.Context, string) (int64, error) { return 0, nil }

func (noop) Set(context.Context, string, int64, []repositories.Offer) error { return nil }

func (noop) Invalidate(context.Context, ...string) error { return nil }
