package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"
)

// Board listing caps. The public feed shows a page; the admin view goes
// deeper for moderation.
const (
	boardPageSize      = 100
	boardAdminPageSize = 500
)

type CommentService interface {
	Post(ctx context.Context, userID int64, university, body string) (*model.Comment, error)
	List(ctx context.Context, university string) ([]model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewCommentService(commentRepo repository.CommentRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{commentRepo: commentRepo, userRepo: userRepo}
}

// Post files a comment. A blank university is resolved to the poster's own.
func (s *commentService) Post(ctx context.Context, userID int64, university, body string) (*model.Comment, error) {
	if university == "" {
		u, err := s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			university = u.University
		}
	}
	c := &model.Comment{
		UserID:     &userID,
		University: university,
		Body:       body,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) List(ctx context.Context, university string) ([]model.Comment, error) {
	return s.commentRepo.List(ctx, university, boardPageSize)
}
