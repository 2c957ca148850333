package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
)

type VoteResult struct {
	Vote       *models.Vote           `json:"vote"`
	Tally      repositories.VoteTally `json:"tally"`
	Membership *models.StoreProduct   `json:"membership,omitempty"`
}

type RatingResult struct {
	Rating  *models.StoreRating        `json:"rating"`
	Summary repositories.RatingSummary `json:"summary"`
}

// FeedbackService records votes on store prices and availability, and store
// ratings.
type FeedbackService struct {
	votes       repositories.VoteRepository
	ratings     repositories.StoreRatingRepository
	memberships repositories.StoreProductRepository
	stores      repositories.StoreRepositoryImpl
	cache       cache.ComparisonCache
	log         *logger.Logger
}

func NewFeedbackService(votes repositories.VoteRepository, ratings repositories.StoreRatingRepository, memberships repositories.StoreProductRepository, stores repositories.StoreRepositoryImpl, c cache.ComparisonCache, log *logger.Logger) *FeedbackService {
	return &FeedbackService{
		votes:       votes,
		ratings:     ratings,
		memberships: memberships,
		stores:      stores,
		cache:       c,
		log:         log.With("service", "FeedbackService"),
	}
}

// Vote records a vote on a product the store carries. An availability vote
// also sets the membership's availability to the voted value.
func (s *FeedbackService) Vote(ctx context.Context, userID, storeID, productID string, kind models.VoteKind, value bool) (*VoteResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if kind != models.VoteKindPrice && kind != models.VoteKindAvailability {
		return nil, fmt.Errorf("%w: kind must be %q or %q", ErrValidation, models.VoteKindPrice, models.VoteKindAvailability)
	}
	membership, err := s.memberships.FindByPair(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, fmt.Errorf("%w: store %s does not carry product %s", ErrNotFound, storeID, productID)
	}

	vote := &models.Vote{
		UserID:    userID,
		StoreID:   storeID,
		ProductID: productID,
		Kind:      kind,
		Value:     value,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		return nil, fmt.Errorf("create vote: %w", err)
	}

	result := &VoteResult{Vote: vote}
	if kind == models.VoteKindAvailability {
		if result.Membership, err = s.memberships.SetAvailability(ctx, membership.ID, value); err != nil {
			return nil, fmt.Errorf("set availability: %w", err)
		}
		if err := s.cache.Invalidate(ctx, productID); err != nil {
			s.log.Warn("comparison cache invalidation failed", "productId", productID, "error", err)
		}
	}

	if result.Tally, err = s.votes.Tally(ctx, storeID, productID, kind); err != nil {
		return nil, err
	}
	return result, nil
}

// Rate stores the user's 1 to 5 rating of a store, replacing an earlier one.
func (s *FeedbackService) Rate(ctx context.Context, userID, storeID string, score int, comment string) (*RatingResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", ErrValidation)
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}

	rating := &models.StoreRating{
		StoreID: storeID,
		UserID:  userID,
		Score:   score,
		Comment: strings.TrimSpace(comment),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	summary, err := s.ratings.Summary(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &RatingResult{Rating: rating, Summary: summary}, nil
}

func (s *FeedbackService) Ratings(ctx context.Context, storeID string) ([]models.StoreRating, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}
	return s.ratings.FindByStore(ctx, storeID)
}
