package service

import (
	"context"
	"testing"

	"app/internal/model"
)

func newTestCommentService(t *testing.T) (CommentService, *model.User) {
	t.Helper()
	users := newFakeUserRepo()
	u := &model.User{Email: "alice@campus.edu", University: "state"}
	if err := users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return NewCommentService(&fakeCommentRepo{}, users), u
}

func TestPostCommentFallsBackToPosterUniversity(t *testing.T) {
	svc, u := newTestCommentService(t)

	c, err := svc.Post(context.Background(), u.ID, "", "the dining hall ran out of trays")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.University != "state" {
		t.Errorf("University = %q, want the poster's %q", c.University, "state")
	}
}

func TestPostCommentKeepsExplicitUniversity(t *testing.T) {
	svc, u := newTestCommentService(t)

	c, err := svc.Post(context.Background(), u.ID, "tech", "visiting campus, prices are wild")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.University != "tech" {
		t.Errorf("University = %q, want %q", c.University, "tech")
	}
}

func TestListCommentsFiltersByUniversity(t *testing.T) {
	svc, u := newTestCommentService(t)
	ctx := context.Background()

	if _, err := svc.Post(ctx, u.ID, "state", "first"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := svc.Post(ctx, u.ID, "tech", "second"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	comments, err := svc.List(ctx, "tech")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(comments) != 1 || comments[0].Body != "second" {
		t.Errorf("comments = %+v, want only the tech one", comments)
	}
}
