package services

import (
	"context"
	"log/slog"
	"math"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// Product event names published after successful writes.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductPatched = "product.patched"
	EventProductDeleted = "product.deleted"
)

// EventPublisher receives product change notifications.
type EventPublisher interface {
	PublishProductEvent(event string, product *models.Product) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *models.Validator
	events    EventPublisher
	logger    *slog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		repo:      repo,
		validator: models.NewValidator(),
		events:    events,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID. A nil product with a
// nil error means it does not exist.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validator.Product(product); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish(EventProductCreated, product)
	return nil
}

// ReplaceProduct validates product and overwrites the stored one. It returns
// nil when no product has product.ID.
func (s *ProductService) ReplaceProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.validator.Product(product); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, product)
	if err != nil || updated == nil {
		return updated, err
	}
	s.publish(EventProductUpdated, updated)
	return updated, nil
}

// PatchProduct merges the fields set on product into the stored one.
// Patches are not validated, so they can store values ReplaceProduct refuses.
func (s *ProductService) PatchProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	patched, err := s.repo.Patch(ctx, product)
	if err != nil || patched == nil {
		return patched, err
	}
	s.publish(EventProductPatched, patched)
	return patched, nil
}

// DeleteProduct deletes a product by its ID. Unknown IDs are not an error.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, &models.Product{ID: id})
	return nil
}

// GetProductsByPrice returns the products priced exactly price. NaN matches
// nothing.
func (s *ProductService) GetProductsByPrice(ctx context.Context, price float64) ([]models.Product, error) {
	if math.IsNaN(price) {
		return []models.Product{}, nil
	}
	return s.repo.GetByPrice(ctx, price)
}

func (s *ProductService) GetProductsByNameAndPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	if math.IsNaN(price) {
		return []models.Product{}, nil
	}
	return s.repo.GetByNameAndPrice(ctx, name, price)
}

func (s *ProductService) GetProductsByNameOrPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return s.repo.GetByNameOrPrice(ctx, name, price)
}

// GetProductsByPriceRange returns the products priced within [minPrice,
// maxPrice]. A NaN bound matches nothing; Postgres numeric sorts NaN above
// every number, so it is not left to the store.
func (s *ProductService) GetProductsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Product, error) {
	if math.IsNaN(minPrice) || math.IsNaN(maxPrice) {
		return []models.Product{}, nil
	}
	return s.repo.GetByPriceRange(ctx, minPrice, maxPrice)
}

func (s *ProductService) GetSortedProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetSorted(ctx)
}

// GetPagedProducts returns a page of products. Fractions are truncated; a NaN,
// infinite or negative skip or limit matches nothing.
func (s *ProductService) GetPagedProducts(ctx context.Context, skip, limit float64) ([]models.Product, error) {
	if !isPageBound(skip) || !isPageBound(limit) {
		return []models.Product{}, nil
	}
	return s.repo.GetPaged(ctx, int64(skip), int64(limit))
}

func (s *ProductService) GetMultiWordProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetMultiWord(ctx)
}

func (s *ProductService) GetProductsWithCategory(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetWithCategory(ctx)
}

func (s *ProductService) GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetCategoriesWithProducts(ctx)
}

// publish never fails the request; a lost event is only logged.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(event, product); err != nil {
		s.logger.Warn("failed to publish product event", "event", event, "product_id", product.ID, "error", err)
	}
}

func isPageBound(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= math.MaxInt32
}
