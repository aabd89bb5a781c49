package models

// Product represents a product in the catalog.
//
// Price and Stock are pointers so a missing field can be told apart from zero;
// a partial update only touches the fields that are non-nil / non-empty.
type Product struct {
	ID         string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name       string    `json:"name,omitempty" validate:"required,min=3,capital"`
	Price      *float64  `json:"price,omitempty" validate:"required,gte=0,lte=10000"`
	Stock      *float64  `json:"stock,omitempty" validate:"required,gte=0,lte=1000"`
	CategoryID string    `json:"categoryId,omitempty" gorm:"type:varchar(36);index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID" validate:"-"`
}

// Float returns a pointer to v. Handy for building products in code.
func Float(v float64) *float64 {
	return &v
}
