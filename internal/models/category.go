package models

// Category groups products. Products is only filled by the join queries.
type Category struct {
	ID       string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name     string    `json:"name" validate:"required"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID" validate:"-"`
}
