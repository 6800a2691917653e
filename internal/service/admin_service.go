package service

import (
	"context"
	"encoding/json"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// adminMessageLimit caps the moderation message feed.
const adminMessageLimit = 500

// adminActivityLimit caps the audit trail view.
const adminActivityLimit = 200

type AdminService interface {
	Users(ctx context.Context) ([]model.User, error)
	Offers(ctx context.Context, kind model.ListingKind) ([]model.Listing, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	Messages(ctx context.Context) ([]model.Message, error)
	Comments(ctx context.Context) ([]model.Comment, error)
	UsageLedger(ctx context.Context) ([]model.UsageAdjustment, error)
	Activities(ctx context.Context) ([]model.Activity, error)
	Broadcast(ctx context.Context, adminID int64, title, body string) error
}

type adminService struct {
	userRepo     repository.UserRepository
	listingRepo  repository.ListingRepository
	threadRepo   repository.ThreadRepository
	commentRepo  repository.CommentRepository
	usageRepo    repository.UsageRepository
	activityRepo repository.ActivityRepository
	publisher    pubsub.Publisher
	eventTopic   string
	logger       zerolog.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	threadRepo repository.ThreadRepository,
	commentRepo repository.CommentRepository,
	usageRepo repository.UsageRepository,
	activityRepo repository.ActivityRepository,
	publisher pubsub.Publisher,
	eventTopic string,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		listingRepo:  listingRepo,
		threadRepo:   threadRepo,
		commentRepo:  commentRepo,
		usageRepo:    usageRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		eventTopic:   eventTopic,
		logger:       logger.With().Str("service", "AdminService").Logger(),
	}
}

func (s *adminService) Users(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListUsers(ctx)
}

// Offers returns every listing of a kind regardless of status; moderation
// needs to see accepted and cancelled rows too.
func (s *adminService) Offers(ctx context.Context, kind model.ListingKind) ([]model.Listing, error) {
	return s.listingRepo.List(ctx, kind)
}

func (s *adminService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.listingRepo.ListTransactions(ctx)
}

func (s *adminService) Messages(ctx context.Context) ([]model.Message, error) {
	return s.threadRepo.ListAllMessages(ctx, adminMessageLimit)
}

func (s *adminService) Comments(ctx context.Context) ([]model.Comment, error) {
	return s.commentRepo.List(ctx, "", boardAdminPageSize)
}

func (s *adminService) UsageLedger(ctx context.Context) ([]model.UsageAdjustment, error) {
	return s.usageRepo.ListAll(ctx)
}

func (s *adminService) Activities(ctx context.Context) ([]model.Activity, error) {
	return s.activityRepo.ListRecent(ctx, adminActivityLimit)
}

// Broadcast pushes an announcement to every connected listener. Delivery is
// at-most-once; listeners that are offline simply miss it.
func (s *adminService) Broadcast(ctx context.Context, adminID int64, title, body string) error {
	payload, err := json.Marshal(map[string]any{
		"event": "announcement",
		"title": title,
		"body":  body,
	})
	if err != nil {
		return err
	}
	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, s.eventTopic, payload); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to publish announcement")
			return err
		}
	}
	if s.activityRepo != nil {
		if err := s.activityRepo.Record(ctx, &adminID, "broadcast", title); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to record broadcast activity")
		}
	}
	return nil
}
