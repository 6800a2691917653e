package service

import (
	"context"
	"encoding/json"
	"errors"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var ErrThreadNotFound = errors.New("thread not found")

type ThreadService interface {
	ListThreads(ctx context.Context, userID int64) ([]model.ThreadSummary, error)
	ListMessages(ctx context.Context, threadID, userID int64) ([]model.Message, error)
	PostMessage(ctx context.Context, threadID, senderID int64, body string) (*model.Message, error)
}

type threadService struct {
	threadRepo repository.ThreadRepository
	publisher  pubsub.Publisher
	eventTopic string
	logger     zerolog.Logger
}

func NewThreadService(threadRepo repository.ThreadRepository, publisher pubsub.Publisher, eventTopic string, logger zerolog.Logger) ThreadService {
	return &threadService{
		threadRepo: threadRepo,
		publisher:  publisher,
		eventTopic: eventTopic,
		logger:     logger.With().Str("service", "ThreadService").Logger(),
	}
}

func (s *threadService) ListThreads(ctx context.Context, userID int64) ([]model.ThreadSummary, error) {
	return s.threadRepo.ListThreadsForUser(ctx, userID)
}

// guard loads the thread and verifies membership. Non-parties get the same
// not-found error as a missing thread.
func (s *threadService) guard(ctx context.Context, threadID, userID int64) (*model.Thread, error) {
	t, err := s.threadRepo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrThreadNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	if !t.Involves(userID) {
		return nil, ErrThreadNotFound
	}
	return t, nil
}

func (s *threadService) ListMessages(ctx context.Context, threadID, userID int64) ([]model.Message, error) {
	if _, err := s.guard(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.threadRepo.ListMessages(ctx, threadID)
}

func (s *threadService) PostMessage(ctx context.Context, threadID, senderID int64, body string) (*model.Message, error) {
	if _, err := s.guard(ctx, threadID, senderID); err != nil {
		return nil, err
	}
	m, err := s.threadRepo.CreateMessage(ctx, threadID, senderID, body)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		payload, err := json.Marshal(map[string]any{
			"event":     "message_posted",
			"thread_id": threadID,
			"sender_id": senderID,
		})
		if err == nil {
			if _, err := s.publisher.Publish(ctx, s.eventTopic, payload); err != nil {
				s.logger.Warn().Err(err).Int64("thread_id", threadID).Msg("Failed to publish message event")
			}
		}
	}
	return m, nil
}
