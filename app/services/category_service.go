package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/format"
)

type CategoryService struct {
	categories repositories.CategoryRepositoryImpl
}

func NewCategoryService(categories repositories.CategoryRepositoryImpl) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	slug := format.Slug(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	existing, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrValidation, existing.Name)
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx)
}
