package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/auth"
	"app/internal/model"
	"app/internal/quota"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

// SignupParams carries the plan configuration collected at registration.
type SignupParams struct {
	Email            string
	Password         string
	University       string
	TotalMeals       int
	ExpiresOn        string
	MealDistribution string
	WeeklyMeals      int
	Remember         bool
}

type UserService interface {
	Signup(ctx context.Context, p SignupParams) (*model.User, string, error)
	Login(ctx context.Context, email, password string, remember bool) (*model.User, string, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
}

type userService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	tokens       *auth.TokenIssuer
	logger       zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, activityRepo repository.ActivityRepository, tokens *auth.TokenIssuer, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		tokens:       tokens,
		logger:       logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Signup(ctx context.Context, p SignupParams) (*model.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	expiresOn, err := parseDate(p.ExpiresOn)
	if err != nil {
		return nil, "", err
	}

	// Only weekly plans get a derived allowance; semester plans keep zero.
	weekly := p.WeeklyMeals
	if weekly <= 0 && p.MealDistribution == model.DistributionWeekly {
		weekly = quota.DefaultWeeklyMeals(p.TotalMeals)
	}

	u := &model.User{
		Email:            p.Email,
		PasswordHash:     string(hash),
		University:       p.University,
		TotalMeals:       p.TotalMeals,
		ExpiresOn:        expiresOn,
		MealDistribution: p.MealDistribution,
		WeeklyMeals:      weekly,
		Role:             model.RoleMember,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		return nil, "", err
	}

	token, err := s.tokens.Generate(u.ID, u.Role, p.Remember)
	if err != nil {
		return nil, "", err
	}
	s.recordActivity(ctx, u.ID, "signup", u.Email)
	return u, token, nil
}

func (s *userService) Login(ctx context.Context, email, password string, remember bool) (*model.User, string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		// Same error as a bad password, so login cannot probe for accounts.
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Role, remember)
	if err != nil {
		return nil, "", err
	}
	s.recordActivity(ctx, u.ID, "login", u.Email)
	return u, token, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, "password_change", "")
	return nil
}

func (s *userService) recordActivity(ctx context.Context, userID int64, action, details string) {
	if s.activityRepo == nil {
		return
	}
	if err := s.activityRepo.Record(ctx, &userID, action, details); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Failed to record activity")
	}
}
