package service

import (
	"context"
	"errors"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newTestListingService(repo *fakeListingRepo, pub *fakePublisher, act *fakeActivityRepo) ListingService {
	return NewListingService(repo, act, nil, pub, "events", zerolog.Nop())
}

func TestAcceptLifecycle(t *testing.T) {
	repo := newFakeListingRepo()
	pub := &fakePublisher{}
	act := &fakeActivityRepo{}
	svc := newTestListingService(repo, pub, act)
	ctx := context.Background()

	l, err := svc.CreateMeal(ctx, CreateMealParams{
		SellerID: 1, Meals: 3, Price: 15, Location: "north hall", MealType: "dinner",
	})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if l.Status != model.StatusActive {
		t.Fatalf("Status = %s, want active", l.Status)
	}

	outcome, err := svc.Accept(ctx, model.KindMeal, l.ID, 2, "can we meet at 6?")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if outcome.Transaction.SellerID != 1 || outcome.Transaction.BuyerID != 2 {
		t.Errorf("transaction parties = %d/%d, want 1/2", outcome.Transaction.SellerID, outcome.Transaction.BuyerID)
	}
	if outcome.ThreadID == 0 {
		t.Error("ThreadID not set")
	}
	if got := repo.messages[len(repo.messages)-1]; got != "can we meet at 6?" {
		t.Errorf("first message = %q", got)
	}

	// Second accept loses: the listing already left the active state.
	if _, err := svc.Accept(ctx, model.KindMeal, l.ID, 3, ""); !errors.Is(err, ErrListingUnavailable) {
		t.Errorf("second accept err = %v, want ErrListingUnavailable", err)
	}
}

func TestAcceptDefaultMessage(t *testing.T) {
	repo := newFakeListingRepo()
	svc := newTestListingService(repo, &fakePublisher{}, &fakeActivityRepo{})
	ctx := context.Background()

	l, _ := svc.CreateItem(ctx, CreateItemParams{SellerID: 1, Name: "desk lamp", Category: "dorm", Price: 8, Baseline: 20})
	if _, err := svc.Accept(ctx, model.KindItem, l.ID, 2, ""); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got := repo.messages[0]; got != "Accepted" {
		t.Errorf("default message = %q, want Accepted", got)
	}
}

func TestAcceptOwnListing(t *testing.T) {
	repo := newFakeListingRepo()
	svc := newTestListingService(repo, &fakePublisher{}, &fakeActivityRepo{})
	ctx := context.Background()

	l, _ := svc.CreateMeal(ctx, CreateMealParams{SellerID: 1, Meals: 1, Price: 5, Location: "cafe", MealType: "lunch"})
	if _, err := svc.Accept(ctx, model.KindMeal, l.ID, 1, ""); !errors.Is(err, ErrOwnListing) {
		t.Errorf("self accept err = %v, want ErrOwnListing", err)
	}
	// The listing must still be acceptable by someone else.
	if _, err := svc.Accept(ctx, model.KindMeal, l.ID, 2, ""); err != nil {
		t.Errorf("accept after failed self accept: %v", err)
	}
}

func TestAcceptWrongKind(t *testing.T) {
	repo := newFakeListingRepo()
	svc := newTestListingService(repo, &fakePublisher{}, &fakeActivityRepo{})
	ctx := context.Background()

	l, _ := svc.CreateMeal(ctx, CreateMealParams{SellerID: 1, Meals: 1, Price: 5, Location: "cafe", MealType: "lunch"})
	if _, err := svc.Accept(ctx, model.KindItem, l.ID, 2, ""); !errors.Is(err, ErrListingUnavailable) {
		t.Errorf("cross-kind accept err = %v, want ErrListingUnavailable", err)
	}
}

func TestCancelGuards(t *testing.T) {
	repo := newFakeListingRepo()
	svc := newTestListingService(repo, &fakePublisher{}, &fakeActivityRepo{})
	ctx := context.Background()

	l, _ := svc.CreateMeal(ctx, CreateMealParams{SellerID: 1, Meals: 2, Price: 10, Location: "south", MealType: "brunch"})

	// A non-owner cannot cancel, and learns nothing from the error.
	if err := svc.Cancel(ctx, model.KindMeal, l.ID, 99); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("foreign cancel err = %v, want ErrListingNotFound", err)
	}
	if err := svc.Cancel(ctx, model.KindMeal, l.ID, 1); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	// Terminal states stay terminal.
	if err := svc.Cancel(ctx, model.KindMeal, l.ID, 1); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("double cancel err = %v, want ErrListingNotFound", err)
	}
	if _, err := svc.Accept(ctx, model.KindMeal, l.ID, 2, ""); !errors.Is(err, ErrListingUnavailable) {
		t.Errorf("accept after cancel err = %v, want ErrListingUnavailable", err)
	}
}

func TestListingEventsPublished(t *testing.T) {
	repo := newFakeListingRepo()
	pub := &fakePublisher{}
	svc := newTestListingService(repo, pub, &fakeActivityRepo{})
	ctx := context.Background()

	l, _ := svc.CreateMeal(ctx, CreateMealParams{SellerID: 1, Meals: 2, Price: 10, Location: "south", MealType: "brunch"})
	if _, err := svc.Accept(ctx, model.KindMeal, l.ID, 2, ""); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if pub.count() != 2 {
		t.Errorf("published events = %d, want 2", pub.count())
	}
}

func TestUploadsDisabledWithoutStore(t *testing.T) {
	svc := newTestListingService(newFakeListingRepo(), &fakePublisher{}, &fakeActivityRepo{})
	if _, _, err := svc.PresignItemImage(context.Background(), 1, "image/png"); !errors.Is(err, ErrUploadsDisabled) {
		t.Errorf("err = %v, want ErrUploadsDisabled", err)
	}
}
