package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/storage"

	"github.com/rs/zerolog"
)

var (
	ErrListingUnavailable = errors.New("listing is no longer available")
	ErrListingNotFound    = errors.New("listing not found")
	ErrOwnListing         = errors.New("cannot accept your own listing")
	ErrUploadsDisabled    = errors.New("image uploads are not configured")
)

// defaultAcceptMessage opens the handoff thread when the buyer sends no note.
const defaultAcceptMessage = "Accepted"

// CreateMealParams describes a new meal-swipe listing.
type CreateMealParams struct {
	SellerID int64
	Meals    int
	Price    float64
	Location string
	MealType string
}

// CreateItemParams describes a new item listing.
type CreateItemParams struct {
	SellerID int64
	Name     string
	Category string
	Price    float64
	Baseline float64
	ImgURL   string
}

// AcceptOutcome is what the handler returns after a successful acceptance.
type AcceptOutcome struct {
	Transaction model.Transaction
	ThreadID    int64
}

type ListingService interface {
	CreateMeal(ctx context.Context, p CreateMealParams) (*model.Listing, error)
	CreateItem(ctx context.Context, p CreateItemParams) (*model.Listing, error)
	List(ctx context.Context, kind model.ListingKind) ([]model.Listing, error)
	Cancel(ctx context.Context, kind model.ListingKind, listingID, sellerID int64) error
	Accept(ctx context.Context, kind model.ListingKind, listingID, buyerID int64, message string) (*AcceptOutcome, error)
	PresignItemImage(ctx context.Context, userID int64, contentType string) (uploadURL, objectURL string, err error)
}

type listingService struct {
	listingRepo  repository.ListingRepository
	activityRepo repository.ActivityRepository
	images       *storage.ImageStore
	publisher    pubsub.Publisher
	eventTopic   string
	logger       zerolog.Logger
}

func NewListingService(
	listingRepo repository.ListingRepository,
	activityRepo repository.ActivityRepository,
	images *storage.ImageStore,
	publisher pubsub.Publisher,
	eventTopic string,
	logger zerolog.Logger,
) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		activityRepo: activityRepo,
		images:       images,
		publisher:    publisher,
		eventTopic:   eventTopic,
		logger:       logger.With().Str("service", "ListingService").Logger(),
	}
}

func (s *listingService) CreateMeal(ctx context.Context, p CreateMealParams) (*model.Listing, error) {
	l := &model.Listing{
		Kind:     model.KindMeal,
		SellerID: p.SellerID,
		Price:    p.Price,
		Meal: &model.MealDetails{
			Meals:    p.Meals,
			Location: p.Location,
			MealType: p.MealType,
		},
	}
	if err := s.listingRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, p.SellerID, "meal_listed", fmt.Sprintf("listing %d", l.ID))
	s.publishEvent(ctx, "listing_created", l.Kind, l.ID)
	return l, nil
}

func (s *listingService) CreateItem(ctx context.Context, p CreateItemParams) (*model.Listing, error) {
	l := &model.Listing{
		Kind:     model.KindItem,
		SellerID: p.SellerID,
		Price:    p.Price,
		Item: &model.ItemDetails{
			Name:     p.Name,
			Category: p.Category,
			ImgURL:   p.ImgURL,
			Baseline: p.Baseline,
		},
	}
	if err := s.listingRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, p.SellerID, "item_listed", fmt.Sprintf("listing %d", l.ID))
	s.publishEvent(ctx, "listing_created", l.Kind, l.ID)
	return l, nil
}

func (s *listingService) List(ctx context.Context, kind model.ListingKind) ([]model.Listing, error) {
	return s.listingRepo.List(ctx, kind)
}

func (s *listingService) Cancel(ctx context.Context, kind model.ListingKind, listingID, sellerID int64) error {
	if err := s.listingRepo.Cancel(ctx, kind, listingID, sellerID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	s.recordActivity(ctx, sellerID, "listing_cancelled", fmt.Sprintf("%s listing %d", kind, listingID))
	s.publishEvent(ctx, "listing_cancelled", kind, listingID)
	return nil
}

// Accept runs the atomic handoff. The buyer's note becomes both the stored
// buyer message and the thread's first message; an empty note falls back to
// the default for both.
func (s *listingService) Accept(ctx context.Context, kind model.ListingKind, listingID, buyerID int64, message string) (*AcceptOutcome, error) {
	body := message
	if body == "" {
		body = defaultAcceptMessage
	}
	result, err := s.listingRepo.Accept(ctx, kind, listingID, buyerID, body, body)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListingUnavailable):
			return nil, ErrListingUnavailable
		case errors.Is(err, repository.ErrSellerIsBuyer):
			return nil, ErrOwnListing
		}
		return nil, err
	}

	s.recordActivity(ctx, buyerID, "listing_accepted", fmt.Sprintf("%s listing %d", kind, listingID))
	s.publishEvent(ctx, "listing_accepted", kind, listingID)
	return &AcceptOutcome{Transaction: result.Transaction, ThreadID: result.ThreadID}, nil
}

func (s *listingService) PresignItemImage(ctx context.Context, userID int64, contentType string) (string, string, error) {
	if s.images == nil {
		return "", "", ErrUploadsDisabled
	}
	return s.images.PresignUpload(ctx, userID, contentType)
}

func (s *listingService) recordActivity(ctx context.Context, userID int64, action, details string) {
	if s.activityRepo == nil {
		return
	}
	if err := s.activityRepo.Record(ctx, &userID, action, details); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Failed to record activity")
	}
}

// publishEvent is fire-and-forget: the database transaction already
// committed, so a lost notification never unwinds the state change.
func (s *listingService) publishEvent(ctx context.Context, event string, kind model.ListingKind, listingID int64) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"event":      event,
		"kind":       kind,
		"listing_id": listingID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("Failed to encode event payload")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.eventTopic, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Msg("Failed to publish event")
	}
}
