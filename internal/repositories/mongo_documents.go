package repositories

import (
	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
)

// productDocument is the stored shape of a product. Category is only set by
// the $lookup stage of the join pipeline.
type productDocument struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	Name       string              `bson:"name,omitempty"`
	Price      *float64            `bson:"price,omitempty"`
	Stock      *float64            `bson:"stock,omitempty"`
	CategoryID *primitive.ObjectID `bson:"categoryId,omitempty"`
	Category   *categoryDocument   `bson:"category,omitempty"`
}

type categoryDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Products []productDocument  `bson:"products,omitempty"`
}

// objectID parses an identifier coming from a URL or body. ok is false for
// anything that is not a 24 character hex string.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func invalidCategoryID() error {
	return &models.ValidationError{
		Entity: "Product",
		Fields: []models.FieldError{{Field: "categoryId", Message: "must be a valid identifier"}},
	}
}

func newProductDocument(p *models.Product) (productDocument, error) {
	doc := productDocument{
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
	if p.CategoryID != "" {
		oid, ok := objectID(p.CategoryID)
		if !ok {
			return productDocument{}, invalidCategoryID()
		}
		doc.CategoryID = &oid
	}
	return doc, nil
}

func (d productDocument) model() models.Product {
	p := models.Product{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Price: d.Price,
		Stock: d.Stock,
	}
	if d.CategoryID != nil {
		p.CategoryID = d.CategoryID.Hex()
	}
	if d.Category != nil {
		c := d.Category.model()
		p.Category = &c
	}
	return p
}

func (d categoryDocument) model() models.Category {
	c := models.Category{
		ID:   d.ID.Hex(),
		Name: d.Name,
	}
	if d.Products != nil {
		c.Products = productModels(d.Products)
	}
	return c
}

func productModels(docs []productDocument) []models.Product {
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}
	return products
}
