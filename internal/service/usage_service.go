package service

import (
	"context"
	"errors"
	"time"

	"app/internal/model"
	"app/internal/quota"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var ErrZeroAdjustment = errors.New("adjustment delta must be non-zero")

type UsageService interface {
	Adjust(ctx context.Context, userID int64, delta int, note string) error
	Stats(ctx context.Context, userID int64) (*quota.Stats, error)
	Ledger(ctx context.Context, userID int64) ([]model.UsageAdjustment, error)
}

type usageService struct {
	usageRepo repository.UsageRepository
	userRepo  repository.UserRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewUsageService wires the usage ledger to the quota engine. The clock is
// injectable so stats are testable at fixed dates.
func NewUsageService(usageRepo repository.UsageRepository, userRepo repository.UserRepository, now func() time.Time, logger zerolog.Logger) UsageService {
	if now == nil {
		now = time.Now
	}
	return &usageService{
		usageRepo: usageRepo,
		userRepo:  userRepo,
		now:       now,
		logger:    logger.With().Str("service", "UsageService").Logger(),
	}
}

func (s *usageService) Adjust(ctx context.Context, userID int64, delta int, note string) error {
	if delta == 0 {
		return ErrZeroAdjustment
	}
	return s.usageRepo.Append(ctx, userID, delta, note)
}

func (s *usageService) Stats(ctx context.Context, userID int64) (*quota.Stats, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	entries, err := s.usageRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ledger := make([]quota.Adjustment, 0, len(entries))
	for _, e := range entries {
		ledger = append(ledger, quota.Adjustment{Delta: e.MealsUsedDelta, At: e.At})
	}

	stats := quota.Compute(quota.PlanFromUser(u), ledger, s.now())
	return &stats, nil
}

func (s *usageService) Ledger(ctx context.Context, userID int64) ([]model.UsageAdjustment, error) {
	return s.usageRepo.ListForUser(ctx, userID)
}
