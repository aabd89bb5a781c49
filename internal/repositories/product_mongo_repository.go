package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
// Identifiers that are not valid ObjectIDs match nothing.
type MongoProductRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

// GetAll retrieves all products.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get all products", bson.M{})
}

// GetByID retrieves a single product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product := doc.model()
	return &product, nil
}

// Create inserts a product and sets its generated ID.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}
	if oid, ok := objectID(product.ID); ok {
		doc.ID = oid
	} else {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = doc.ID.Hex()
	return nil
}

// Update replaces the stored document with product.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	oid, ok := objectID(product.ID)
	if !ok {
		return nil, nil
	}
	doc, err := newProductDocument(product)
	if err != nil {
		return nil, err
	}
	res, err := r.products.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return product, nil
}

// Patch $sets the fields present on product.
func (r *MongoProductRepository) Patch(ctx context.Context, product *models.Product) (*models.Product, error) {
	oid, ok := objectID(product.ID)
	if !ok {
		return nil, nil
	}
	set := bson.M{}
	for field, value := range patchFields(product) {
		if field == "categoryId" {
			categoryID, ok := objectID(value.(string))
			if !ok {
				return nil, invalidCategoryID()
			}
			value = categoryID
		}
		set[field] = value
	}

	// An empty $set is rejected by the server, so only check existence.
	if len(set) == 0 {
		n, err := r.products.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("failed to patch product: %w", err)
		}
		if n == 0 {
			return nil, nil
		}
		return product, nil
	}

	res, err := r.products.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to patch product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return product, nil
}

// Delete deletes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}
	if _, err := r.products.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) GetByPrice(ctx context.Context, price float64) ([]models.Product, error) {
	return r.find(ctx, "get products by price", bson.M{"price": price})
}

func (r *MongoProductRepository) GetByNameAndPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	return r.find(ctx, "get products by name and price", bson.M{"name": name, "price": price})
}

func (r *MongoProductRepository) GetByNameOrPrice(ctx context.Context, name string, price float64) ([]models.Product, error) {
	filter := bson.M{"$or": bson.A{bson.M{"name": name}, bson.M{"price": price}}}
	return r.find(ctx, "get products by name or price", filter)
}

func (r *MongoProductRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Product, error) {
	filter := bson.M{"price": bson.M{"$gte": minPrice, "$lte": maxPrice}}
	return r.find(ctx, "get products by price range", filter)
}

func (r *MongoProductRepository) GetSorted(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: -1}, {Key: "name", Value: 1}})
	return r.find(ctx, "get sorted products", bson.M{}, opts)
}

func (r *MongoProductRepository) GetPaged(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, "get paged products", bson.M{}, opts)
}

func (r *MongoProductRepository) GetMultiWord(ctx context.Context) ([]models.Product, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: multiWordPattern}}
	return r.find(ctx, "get multi-word products", filter)
}

// GetWithCategory joins each product with its category via $lookup.
// Products without a resolvable categoryId keep no category.
func (r *MongoProductRepository) GetWithCategory(ctx context.Context) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: categoriesCollection},
			{Key: "localField", Value: "categoryId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$category"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	cursor, err := r.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get products with category: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products with category: %w", err)
	}
	return productModels(docs), nil
}

// GetCategoriesWithProducts joins each category with the products that
// reference it.
func (r *MongoProductRepository) GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "categoryId"},
			{Key: "as", Value: "products"},
		}}},
	}
	cursor, err := r.categories.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories with products: %w", err)
	}
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories with products: %w", err)
	}
	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, d.model())
	}
	return categories, nil
}

func (r *MongoProductRepository) find(ctx context.Context, op string, filter any, opts ...*options.FindOptions) ([]models.Product, error) {
	cursor, err := r.products.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return productModels(docs), nil
}
