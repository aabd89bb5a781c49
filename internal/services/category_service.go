package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo      repositories.CategoryRepository
	validator *models.Validator
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo:      repo,
		validator: models.NewValidator(),
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetCategoryByID retrieves a category, or nil when it does not exist.
func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCategory validates and stores a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.validator.Category(category); err != nil {
		return err
	}
	return s.repo.Create(ctx, category)
}
