package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when an entity fails its schema rules.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, ", "))
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// messages maps field -> tag -> message. The "*" field holds the fallbacks.
var messages = map[string]map[string]string{
	"*": {
		"required": "is missing",
		"gte":      "can't be negative",
	},
	"name": {
		"min":     "must be minimum 3 chars",
		"capital": "must start with a capital letter",
	},
	"price": {"lte": "can't exceed 10,000"},
	"stock": {"lte": "can't exceed 1000"},
}

// Validator checks products and categories against their struct tags.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the catalog's custom rules registered.
func NewValidator() *Validator {
	v := validator.New()

	// Report json names so messages read "name: ..." rather than "Name: ...".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// capital: first character must be an uppercase ASCII letter.
	_ = v.RegisterValidation("capital", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && s[0] >= 'A' && s[0] <= 'Z'
	})

	return &Validator{validate: v}
}

// Product validates a fully populated product. Partial payloads must not be
// passed here: absent fields would be reported as missing.
func (v *Validator) Product(p *Product) error {
	return v.check("Product", p)
}

// Category validates a category before insert.
func (v *Validator) Category(c *Category) error {
	return v.check("Category", c)
}

func (v *Validator) check(entity string, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	ve := &ValidationError{Entity: entity}
	for _, fe := range fieldErrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return ve
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages["*"][fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
