package service

import (
	"context"
	"errors"

	"app/internal/model"
	"app/internal/repository"
)

var ErrInvalidPrice = errors.New("price must be positive")

type MealPriceService interface {
	Set(ctx context.Context, university, mealType string, price float64) (*model.MealPrice, error)
	List(ctx context.Context, university string) ([]model.MealPrice, error)
}

type mealPriceService struct {
	priceRepo repository.MealPriceRepository
}

func NewMealPriceService(priceRepo repository.MealPriceRepository) MealPriceService {
	return &mealPriceService{priceRepo: priceRepo}
}

func (s *mealPriceService) Set(ctx context.Context, university, mealType string, price float64) (*model.MealPrice, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	mp := &model.MealPrice{
		University: university,
		MealType:   mealType,
		Price:      price,
	}
	if err := s.priceRepo.Upsert(ctx, mp); err != nil {
		return nil, err
	}
	return mp, nil
}

func (s *mealPriceService) List(ctx context.Context, university string) ([]model.MealPrice, error) {
	return s.priceRepo.List(ctx, university)
}
