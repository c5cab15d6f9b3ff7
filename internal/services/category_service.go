package services

import (
	"context"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
)

type CategoryService struct {
	API *api.Client
}

func NewCategoryService(c *api.Client) *CategoryService {
	return &CategoryService{API: c}
}

func (s *CategoryService) All(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.API.Get(ctx, nil, "/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	var cat domain.Category
	err := s.API.Get(ctx, nil, "/categories/"+id, &cat)
	return cat, err
}

func (s *CategoryService) BySlug(ctx context.Context, slug string) (*domain.Category, error) {
	cats, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Slug == slug {
			return &cats[i], nil
		}
	}
	return nil, nil
}
