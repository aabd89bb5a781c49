package repositories_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// backend builds an empty store and produces identifiers that look valid to
// it but reference nothing.
type backend struct {
	name     string
	open     func(t *testing.T) *repositories.Store
	unusedID func() string
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) []backend {
	list := []backend{
		{
			name:     "memory",
			open:     func(t *testing.T) *repositories.Store { return repositories.NewMockStore() },
			unusedID: func() string { return uuid.New().String() },
		},
		{
			name: "sqlite",
			open: func(t *testing.T) *repositories.Store {
				dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
				store, err := repositories.OpenStore(context.Background(), repositories.StoreOptions{
					Driver:           repositories.DriverSQLite,
					ConnectionString: dsn,
				}, quietLogger())
				require.NoError(t, err)
				require.NoError(t, store.Ping(context.Background()))
				t.Cleanup(func() { _ = store.Close(context.Background()) })
				return store
			},
			unusedID: func() string { return uuid.New().String() },
		},
	}

	// Mongo needs a live server; run it only when one is configured.
	if uri := os.Getenv("CATALOG_TEST_MONGO_URI"); uri != "" {
		list = append(list, backend{
			name: "mongodb",
			open: func(t *testing.T) *repositories.Store {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				dbName := "catalog_test_" + primitive.NewObjectID().Hex()
				store, err := repositories.OpenStore(ctx, repositories.StoreOptions{
					Driver:           repositories.DriverMongo,
					ConnectionString: uri,
					Database:         dbName,
				}, quietLogger())
				require.NoError(t, err)
				require.NoError(t, store.Ping(ctx))
				t.Cleanup(func() {
					client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
					if err == nil {
						_ = client.Database(dbName).Drop(context.Background())
						_ = client.Disconnect(context.Background())
					}
					_ = store.Close(context.Background())
				})
				return store
			},
			unusedID: func() string { return primitive.NewObjectID().Hex() },
		})
	}
	return list
}

func seed(t *testing.T, store *repositories.Store, products ...models.Product) []models.Product {
	t.Helper()
	for i := range products {
		require.NoError(t, store.Products.Create(context.Background(), &products[i]))
		require.NotEmpty(t, products[i].ID)
	}
	return products
}

func product(name string, price float64) models.Product {
	return models.Product{Name: name, Price: models.Float(price), Stock: models.Float(1)}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestStores(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			runProductRepositoryTests(t, b)
			runCategoryRepositoryTests(t, b)
		})
	}
}

func runProductRepositoryTests(t *testing.T, b backend) {
	ctx := context.Background()

	t.Run("CreateThenGetByID", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, models.Product{Name: "Apple", Price: models.Float(5), Stock: models.Float(1)})[0]

		got, err := store.Products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created, *got)
	})

	t.Run("GetByIDMissing", func(t *testing.T) {
		store := b.open(t)
		got, err := store.Products.GetByID(ctx, b.unusedID())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetAll", func(t *testing.T) {
		store := b.open(t)
		all, err := store.Products.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		seed(t, store, product("Apple", 1), product("Pear", 2))
		all, err = store.Products.GetAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Apple", "Pear"}, names(all))
	})

	t.Run("UpdateReplacesAndEchoes", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, product("Apple", 5))[0]

		replacement := &models.Product{ID: created.ID, Name: "Green Apple", Price: models.Float(7), Stock: models.Float(3)}
		echoed, err := store.Products.Update(ctx, replacement)
		require.NoError(t, err)
		assert.Same(t, replacement, echoed)

		got, err := store.Products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Green Apple", got.Name)
		assert.Equal(t, 7.0, *got.Price)
		assert.Equal(t, 3.0, *got.Stock)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		store := b.open(t)
		p := product("Apple", 5)
		p.ID = b.unusedID()
		echoed, err := store.Products.Update(ctx, &p)
		assert.NoError(t, err)
		assert.Nil(t, echoed)
	})

	t.Run("PatchMergesPresentFields", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, product("Apple", 5))[0]

		patch := &models.Product{ID: created.ID, Price: models.Float(9)}
		echoed, err := store.Products.Patch(ctx, patch)
		require.NoError(t, err)
		assert.Same(t, patch, echoed)

		got, err := store.Products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Apple", got.Name)
		assert.Equal(t, 9.0, *got.Price)
		assert.Equal(t, 1.0, *got.Stock)
	})

	t.Run("PatchDoesNotValidate", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, product("Apple", 5))[0]

		echoed, err := store.Products.Patch(ctx, &models.Product{ID: created.ID, Name: "lowercase"})
		require.NoError(t, err)
		require.NotNil(t, echoed)

		got, err := store.Products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "lowercase", got.Name)
	})

	t.Run("PatchWithoutFields", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, product("Apple", 5))[0]

		echoed, err := store.Products.Patch(ctx, &models.Product{ID: created.ID})
		assert.NoError(t, err)
		assert.NotNil(t, echoed)

		echoed, err = store.Products.Patch(ctx, &models.Product{ID: b.unusedID()})
		assert.NoError(t, err)
		assert.Nil(t, echoed)
	})

	t.Run("PatchMissing", func(t *testing.T) {
		store := b.open(t)
		echoed, err := store.Products.Patch(ctx, &models.Product{ID: b.unusedID(), Price: models.Float(1)})
		assert.NoError(t, err)
		assert.Nil(t, echoed)
	})

	t.Run("Delete", func(t *testing.T) {
		store := b.open(t)
		created := seed(t, store, product("Apple", 5))[0]

		require.NoError(t, store.Products.Delete(ctx, created.ID))
		got, err := store.Products.GetByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)

		// Deleting again, or deleting something that never existed, is fine.
		assert.NoError(t, store.Products.Delete(ctx, created.ID))
		assert.NoError(t, store.Products.Delete(ctx, b.unusedID()))
	})

	t.Run("ExactFilters", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("Apple", 5), product("Pear", 5), product("Plum", 8))

		byPrice, err := store.Products.GetByPrice(ctx, 5)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Apple", "Pear"}, names(byPrice))

		byNameAndPrice, err := store.Products.GetByNameAndPrice(ctx, "Pear", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Pear"}, names(byNameAndPrice))

		none, err := store.Products.GetByNameAndPrice(ctx, "Plum", 5)
		require.NoError(t, err)
		assert.Empty(t, none)

		byNameOrPrice, err := store.Products.GetByNameOrPrice(ctx, "Plum", 5)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Apple", "Pear", "Plum"}, names(byNameOrPrice))
	})

	t.Run("NaNMatchesNothing", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("Apple", 5))

		got, err := store.Products.GetByPrice(ctx, math.NaN())
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = store.Products.GetByPriceRange(ctx, math.NaN(), 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("PriceRangeIsInclusive", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("Five", 5), product("Ten", 10), product("Fifteen", 15), product("Twenty", 20), product("Twentyfive", 25))

		got, err := store.Products.GetByPriceRange(ctx, 10, 20)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Ten", "Fifteen", "Twenty"}, names(got))
	})

	t.Run("Sorted", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("Widget", 50), product("Gadget", 50), product("Zeta", 80))

		got, err := store.Products.GetSorted(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta", "Gadget", "Widget"}, names(got))
	})

	t.Run("Paged", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("One", 1), product("Two", 2), product("Three", 3), product("Four", 4), product("Five", 5))

		var seen []string
		for skip := int64(0); skip < 6; skip += 2 {
			page, err := store.Products.GetPaged(ctx, skip, 2)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(page), 2)
			seen = append(seen, names(page)...)
		}
		sort.Strings(seen)
		assert.Equal(t, []string{"Five", "Four", "One", "Three", "Two"}, seen)

		past, err := store.Products.GetPaged(ctx, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, past)

		unlimited, err := store.Products.GetPaged(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, unlimited, 4)
	})

	t.Run("MultiWord", func(t *testing.T) {
		store := b.open(t)
		seed(t, store, product("Widget", 1), product("Big Widget", 2), product("Xyz", 3), product("Trailing ", 4))

		got, err := store.Products.GetMultiWord(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Big Widget"}, names(got))
	})

	t.Run("Joins", func(t *testing.T) {
		store := b.open(t)
		fruit := models.Category{Name: "Fruit"}
		tools := models.Category{Name: "Tools"}
		require.NoError(t, store.Categories.Create(ctx, &fruit))
		require.NoError(t, store.Categories.Create(ctx, &tools))

		apple := product("Apple", 1)
		apple.CategoryID = fruit.ID
		pear := product("Pear", 2)
		pear.CategoryID = fruit.ID
		dangling := product("Ghost", 3)
		dangling.CategoryID = b.unusedID()
		seed(t, store, apple, pear, dangling, product("Stone", 4))

		products, err := store.Products.GetWithCategory(ctx)
		require.NoError(t, err)
		require.Len(t, products, 4)
		for _, p := range products {
			switch p.Name {
			case "Apple", "Pear":
				require.NotNil(t, p.Category, p.Name)
				assert.Equal(t, fruit.ID, p.Category.ID)
				assert.Equal(t, "Fruit", p.Category.Name)
			default:
				assert.Nil(t, p.Category, p.Name)
			}
		}

		categories, err := store.Products.GetCategoriesWithProducts(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		for _, c := range categories {
			switch c.Name {
			case "Fruit":
				assert.ElementsMatch(t, []string{"Apple", "Pear"}, names(c.Products))
			case "Tools":
				assert.Empty(t, c.Products)
			default:
				t.Fatalf("unexpected category %q", c.Name)
			}
		}
	})
}

func runCategoryRepositoryTests(t *testing.T, b backend) {
	ctx := context.Background()

	t.Run("Categories", func(t *testing.T) {
		store := b.open(t)

		all, err := store.Categories.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		fruit := models.Category{Name: "Fruit"}
		require.NoError(t, store.Categories.Create(ctx, &fruit))
		require.NotEmpty(t, fruit.ID)

		got, err := store.Categories.GetByID(ctx, fruit.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Fruit", got.Name)

		missing, err := store.Categories.GetByID(ctx, b.unusedID())
		assert.NoError(t, err)
		assert.Nil(t, missing)

		all, err = store.Categories.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fruit"}, []string{all[0].Name})
	})
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := repositories.OpenStore(context.Background(), repositories.StoreOptions{Driver: "cassandra"}, quietLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenStore_MalformedMongoURI(t *testing.T) {
	ctx := context.Background()
	store, err := repositories.OpenStore(ctx, repositories.StoreOptions{
		Driver:           repositories.DriverMongo,
		ConnectionString: "not-a-mongo-uri",
		Database:         "catalog",
	}, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.Error(t, store.Ping(ctx))

	_, err = store.Products.GetAll(ctx)
	assert.ErrorContains(t, err, "failed to create mongo client")
	_, err = store.Products.GetByID(ctx, "anything")
	assert.Error(t, err)
	assert.Error(t, store.Products.Delete(ctx, "anything"))
	_, err = store.Categories.GetAll(ctx)
	assert.Error(t, err)
	assert.NoError(t, store.Close(ctx))
}

func TestStores_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		if b.name == "mongodb" {
			// Mongo assigns its own ObjectID on insert.
			continue
		}
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			created := seed(t, store, product("Apple", 5))[0]

			duplicate := product("Pear", 9)
			duplicate.ID = created.ID
			assert.Error(t, store.Products.Create(ctx, &duplicate))

			got, err := store.Products.GetByID(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Apple", got.Name)

			category := models.Category{Name: "Fruit"}
			require.NoError(t, store.Categories.Create(ctx, &category))
			again := models.Category{ID: category.ID, Name: "Vegetables"}
			assert.Error(t, store.Categories.Create(ctx, &again))

			all, err := store.Categories.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "Fruit", all[0].Name)
		})
	}
}
