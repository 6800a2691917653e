package service

import (
	"context"
	"errors"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newTestThreadService(repo *fakeThreadRepo, pub *fakePublisher) ThreadService {
	return NewThreadService(repo, pub, "events", zerolog.Nop())
}

func TestThreadMembershipGuard(t *testing.T) {
	repo := newFakeThreadRepo()
	repo.addThread(&model.Thread{ID: 1, Kind: model.KindMeal, ListingID: 10, SellerID: 1, BuyerID: 2, Open: true})
	svc := newTestThreadService(repo, &fakePublisher{})
	ctx := context.Background()

	// A stranger gets the same error as a missing thread.
	if _, err := svc.ListMessages(ctx, 1, 99); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("stranger ListMessages err = %v, want ErrThreadNotFound", err)
	}
	if _, err := svc.PostMessage(ctx, 1, 99, "hi"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("stranger PostMessage err = %v, want ErrThreadNotFound", err)
	}
	if _, err := svc.ListMessages(ctx, 42, 1); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("missing thread err = %v, want ErrThreadNotFound", err)
	}
}

func TestPostAndListMessages(t *testing.T) {
	repo := newFakeThreadRepo()
	repo.addThread(&model.Thread{ID: 1, Kind: model.KindItem, ListingID: 10, SellerID: 1, BuyerID: 2, Open: true})
	pub := &fakePublisher{}
	svc := newTestThreadService(repo, pub)
	ctx := context.Background()

	if _, err := svc.PostMessage(ctx, 1, 2, "is it still available?"); err != nil {
		t.Fatalf("buyer PostMessage: %v", err)
	}
	if _, err := svc.PostMessage(ctx, 1, 1, "yes, come by tonight"); err != nil {
		t.Fatalf("seller PostMessage: %v", err)
	}

	msgs, err := svc.ListMessages(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Body != "is it still available?" {
		t.Errorf("first message = %q", msgs[0].Body)
	}
	if pub.count() != 2 {
		t.Errorf("published events = %d, want 2", pub.count())
	}
}
