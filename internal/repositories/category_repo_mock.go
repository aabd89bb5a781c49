package repositories

import (
	"context"
	"fmt"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	order      []string
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// GetAll returns all categories.
func (r *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.all(), nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := r.lookup(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if _, exists := r.categories[category.ID]; exists {
		return fmt.Errorf("failed to create category: duplicate id %s", category.ID)
	}
	r.order = append(r.order, category.ID)
	stored := *category
	stored.Products = nil
	r.categories[category.ID] = stored
	return nil
}

func (r *MockCategoryRepository) lookup(id string) (models.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	return c, ok
}

func (r *MockCategoryRepository) all() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categoryList := make([]models.Category, 0, len(r.order))
	for _, id := range r.order {
		categoryList = append(categoryList, r.categories[id])
	}
	return categoryList
}
