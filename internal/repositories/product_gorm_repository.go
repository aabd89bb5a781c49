package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get all products", r.db)
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites all persisted fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"price":       product.Price,
			"stock":       product.Stock,
			"category_id": product.CategoryID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return product, nil
}

// Patch updates only the fields set on product.
func (r *GORMProductRepository) Patch(ctx context.Context, product *models.Product) (*models.Product, error) {
	changes := patchFields(product)
	if len(changes) == 0 {
		// Nothing to write; still answer whether the product exists.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to patch product: %w", err)
		}
		if count == 0 {
			return nil, nil
		}
		return product, nil
	}

	gormChanges := make(map[string]any, len(changes))
	for k, v := range changes {
		gormChanges[columnNames[k]] = v
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(gormChanges)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to patch product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return product, nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *GORMProductRepository) GetByPrice(ctx context.Context, price float64) ([]models.Product, error) {
	return r.find(ctx, "get products by price", r.db.Where("price = ?", price))
}

func (r *GORMProductRepository) GetByNameAndPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return r.find(ctx, "get products by name and price", r.db.Where("name = ? AND price = ?", name, price))
}

func (r *GORMProductRepository) GetByNameOrPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return r.find(ctx, "get products by name or price", r.db.Where("name = ? OR price = ?", name, price))
}

func (r *GORMProductRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Product, error) {
	return r.find(ctx, "get products by price range", r.db.Where("price >= ? AND price <= ?", minPrice, maxPrice))
}

func (r *GORMProductRepository) GetSorted(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get sorted products", r.db.Order("price desc").Order("name asc"))
}

func (r *GORMProductRepository) GetPaged(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	q := r.db.Offset(int(skip))
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	return r.find(ctx, "get paged products", q)
}

// GetMultiWord uses LIKE since SQLite ships without REGEXP. "%_ _%" matches
// the same names as multiWordPattern.
func (r *GORMProductRepository) GetMultiWord(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get multi-word products", r.db.Where("name LIKE ?", "%_ _%"))
}

func (r *GORMProductRepository) GetWithCategory(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get products with category", r.db.Preload("Category"))
}

func (r *GORMProductRepository) GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Preload("Products").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories with products: %w", err)
	}
	return categories, nil
}

func (r *GORMProductRepository) find(ctx context.Context, op string, q *gorm.DB) ([]models.Product, error) {
	products := []models.Product{}
	if err := q.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return products, nil
}

// columnNames maps the json field names used by patchFields to SQL columns.
var columnNames = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"categoryId": "category_id",
}
