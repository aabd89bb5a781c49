package repositories

import (
	"context"

	"catalog/internal/models"
)

// unavailableProductRepository answers every call with the error that kept
// the store from opening.
type unavailableProductRepository struct {
	err error
}

func (r unavailableProductRepository) GetAll(context.Context) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetByID(context.Context, string) (*models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) Create(context.Context, *models.Product) error {
	return r.err
}

func (r unavailableProductRepository) Update(context.Context, *models.Product) (*models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) Patch(context.Context, *models.Product) (*models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) Delete(context.Context, string) error {
	return r.err
}

func (r unavailableProductRepository) GetByPrice(context.Context, float64) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetByNameAndPrice(context.Context, string, float64) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetByNameOrPrice(context.Context, string, float64) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetByPriceRange(context.Context, float64, float64) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetSorted(context.Context) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetPaged(context.Context, int64, int64) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetMultiWord(context.Context) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetWithCategory(context.Context) ([]models.Product, error) {
	return nil, r.err
}

func (r unavailableProductRepository) GetCategoriesWithProducts(context.Context) ([]models.Category, error) {
	return nil, r.err
}

type unavailableCategoryRepository struct {
	err error
}

func (r unavailableCategoryRepository) GetAll(context.Context) ([]models.Category, error) {
	return nil, r.err
}

func (r unavailableCategoryRepository) GetByID(context.Context, string) (*models.Category, error) {
	return nil, r.err
}

func (r unavailableCategoryRepository) Create(context.Context, *models.Category) error {
	return r.err
}

// newUnavailableStore returns a store whose every operation, Ping included,
// fails with err.
func newUnavailableStore(err error) *Store {
	return &Store{
		Products:   unavailableProductRepository{err: err},
		Categories: unavailableCategoryRepository{err: err},
		ping:       func(context.Context) error { return err },
	}
}
