package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCategoryRepository is a MongoDB implementation of CategoryRepository.
type MongoCategoryRepository struct {
	categories *mongo.Collection
}

// NewMongoCategoryRepository creates a new instance of MongoCategoryRepository.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		categories: db.Collection(categoriesCollection),
	}
}

// GetAll retrieves all categories.
func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, d.model())
	}
	return categories, nil
}

// GetByID retrieves a category by its ID.
func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc categoryDocument
	err := r.categories.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	category := doc.model()
	return &category, nil
}

// Create inserts a category and sets its generated ID.
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	doc := categoryDocument{ID: primitive.NewObjectID(), Name: category.Name}
	if oid, ok := objectID(category.ID); ok {
		doc.ID = oid
	}
	if _, err := r.categories.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = doc.ID.Hex()
	return nil
}
