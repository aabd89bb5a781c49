package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Every method issues a single store operation.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// GetByID returns (nil, nil) when no product has the given ID.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update replaces every field of the product with product.ID. It returns
	// the given product when a document matched, nil when none did.
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	// Patch merges the non-empty fields of product into the stored one, with
	// the same return contract as Update.
	Patch(ctx context.Context, product *models.Product) (*models.Product, error)
	// Delete does not report an error when nothing matched.
	Delete(ctx context.Context, id string) error

	GetByPrice(ctx context.Context, price float64) ([]models.Product, error)
	GetByNameAndPrice(ctx context.Context, name string, price float64) ([]models.Product, error)
	GetByNameOrPrice(ctx context.Context, name string, price float64) ([]models.Product, error)
	// GetByPriceRange is inclusive on both ends.
	GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Product, error)
	// GetSorted orders by price descending, then name ascending.
	GetSorted(ctx context.Context) ([]models.Product, error)
	// GetPaged skips skip products and returns at most limit; limit 0 means no limit.
	GetPaged(ctx context.Context, skip, limit int64) ([]models.Product, error)
	// GetMultiWord returns products whose name has a space with at least one
	// character on each side.
	GetMultiWord(ctx context.Context) ([]models.Product, error)
	GetWithCategory(ctx context.Context) ([]models.Product, error)
	GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error)
}

// multiWordPattern is the name pattern used by GetMultiWord.
const multiWordPattern = `^.+ .+$`

// patchFields returns the fields a partial update should write, keyed by
// their json name. Empty strings and nil numbers count as absent.
func patchFields(p *models.Product) map[string]any {
	changes := make(map[string]any, 4)
	if p.Name != "" {
		changes["name"] = p.Name
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	if p.Stock != nil {
		changes["stock"] = *p.Stock
	}
	if p.CategoryID != "" {
		changes["categoryId"] = p.CategoryID
	}
	return changes
}
