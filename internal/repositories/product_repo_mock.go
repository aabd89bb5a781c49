package repositories

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

var multiWordRe = regexp.MustCompile(multiWordPattern)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Products are returned in insertion order, like a fresh Mongo collection.
type MockProductRepository struct {
	products   map[string]models.Product
	order      []string
	categories *MockCategoryRepository
	mu         sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
// categories backs the join queries and may be nil.
func NewMockProductRepository(categories *MockCategoryRepository) *MockProductRepository {
	if categories == nil {
		categories = NewMockCategoryRepository()
	}
	return &MockProductRepository{
		products:   make(map[string]models.Product),
		categories: categories,
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	product = cloneProduct(product)
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("failed to create product: duplicate id %s", product.ID)
	}
	r.order = append(r.order, product.ID)
	stored := cloneProduct(*product)
	stored.Category = nil
	r.products[product.ID] = stored
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, nil
	}
	stored := cloneProduct(*product)
	stored.Category = nil
	r.products[product.ID] = stored
	return product, nil
}

// Patch merges the set fields of product into the existing one.
func (r *MockProductRepository) Patch(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return nil, nil
	}
	for field, value := range patchFields(product) {
		switch field {
		case "name":
			stored.Name = value.(string)
		case "price":
			stored.Price = models.Float(value.(float64))
		case "stock":
			stored.Stock = models.Float(value.(float64))
		case "categoryId":
			stored.CategoryID = value.(string)
		}
	}
	r.products[product.ID] = stored
	return product, nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MockProductRepository) GetByPrice(ctx context.Context, price float64) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return priceIs(p, price) }), nil
}

func (r *MockProductRepository) GetByNameAndPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Name == name && priceIs(p, price) }), nil
}

func (r *MockProductRepository) GetByNameOrPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Name == name || priceIs(p, price) }), nil
}

func (r *MockProductRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Price != nil && *p.Price >= minPrice && *p.Price <= maxPrice
	}), nil
}

func (r *MockProductRepository) GetSorted(ctx context.Context) ([]models.Product, error) {
	products := r.filter(func(models.Product) bool { return true })
	sort.SliceStable(products, func(i, j int) bool {
		pi, pj := priceOf(products[i]), priceOf(products[j])
		if pi != pj {
			return pi > pj
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (r *MockProductRepository) GetPaged(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	products := r.filter(func(models.Product) bool { return true })
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(products)) {
		return []models.Product{}, nil
	}
	products = products[skip:]
	if limit > 0 && limit < int64(len(products)) {
		products = products[:limit]
	}
	return products, nil
}

func (r *MockProductRepository) GetMultiWord(ctx context.Context) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return multiWordRe.MatchString(p.Name) }), nil
}

func (r *MockProductRepository) GetWithCategory(ctx context.Context) ([]models.Product, error) {
	products := r.filter(func(models.Product) bool { return true })
	for i := range products {
		if products[i].CategoryID == "" {
			continue
		}
		if c, ok := r.categories.lookup(products[i].CategoryID); ok {
			products[i].Category = &c
		}
	}
	return products, nil
}

func (r *MockProductRepository) GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	categories := r.categories.all()
	for i := range categories {
		id := categories[i].ID
		categories[i].Products = r.filter(func(p models.Product) bool { return p.CategoryID == id })
	}
	return categories, nil
}

// filter returns copies of the products matching keep, in insertion order.
func (r *MockProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if keep(p) {
			productList = append(productList, cloneProduct(p))
		}
	}
	return productList
}

func priceIs(p models.Product, price float64) bool {
	return p.Price != nil && *p.Price == price
}

func priceOf(p models.Product) float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func cloneProduct(p models.Product) models.Product {
	if p.Price != nil {
		p.Price = models.Float(*p.Price)
	}
	if p.Stock != nil {
		p.Stock = models.Float(*p.Stock)
	}
	return p
}
