package handlers

import (
	"fmt"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes under /products.
// The fixed query paths come first so "/:id" does not shadow them.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")

	productRoutes.Get("/by-price/:price", h.HandleGetByPrice)
	productRoutes.Get("/by-name-and-price/:name/:price", h.HandleGetByNameAndPrice)
	productRoutes.Get("/by-name-or-price/:name/:price", h.HandleGetByNameOrPrice)
	productRoutes.Get("/by-price-range/:minPrice/:maxPrice", h.HandleGetByPriceRange)
	productRoutes.Get("/sorted/price-desc-name-asc", h.HandleGetSorted)
	productRoutes.Get("/paged/:skip/:limit", h.HandleGetPaged)
	productRoutes.Get("/search/multiple-words", h.HandleGetMultiWord)
	productRoutes.Get("/join/products-including-category", h.HandleGetWithCategory)
	productRoutes.Get("/join/categories-including-products", h.HandleGetCategoriesWithProducts)

	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleReplaceProduct)
	productRoutes.Patch("/:id", h.HandlePatchProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetAllProducts(c.UserContext()))
}

// HandleGetProductByID retrieves a single product, or 404 without a body.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if product == nil {
		return notFound(c)
	}
	return c.JSON(product)
}

// HandleCreateProduct validates and inserts a product, answering 201.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, err := parseProduct(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleReplaceProduct validates the body and replaces the product.
func (h *ProductHandler) HandleReplaceProduct(c *fiber.Ctx) error {
	product, err := parseProduct(c)
	if err != nil {
		return err
	}
	product.ID = c.Params("id")

	updated, err := h.service.ReplaceProduct(c.UserContext(), product)
	if err != nil {
		return err
	}
	if updated == nil {
		return notFound(c)
	}
	return c.JSON(updated)
}

// HandlePatchProduct merges the body into the product without validation.
func (h *ProductHandler) HandlePatchProduct(c *fiber.Ctx) error {
	product, err := parseProduct(c)
	if err != nil {
		return err
	}
	product.ID = c.Params("id")

	patched, err := h.service.PatchProduct(c.UserContext(), product)
	if err != nil {
		return err
	}
	if patched == nil {
		return notFound(c)
	}
	return c.JSON(patched)
}

// HandleDeleteProduct always answers 204 unless the store fails.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) HandleGetByPrice(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetProductsByPrice(c.UserContext(), numberParam(c, "price")))
}

func (h *ProductHandler) HandleGetByNameAndPrice(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetProductsByNameAndPrice(c.UserContext(), textParam(c, "name"), numberParam(c, "price")))
}

func (h *ProductHandler) HandleGetByNameOrPrice(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetProductsByNameOrPrice(c.UserContext(), textParam(c, "name"), numberParam(c, "price")))
}

func (h *ProductHandler) HandleGetByPriceRange(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetProductsByPriceRange(c.UserContext(), numberParam(c, "minPrice"), numberParam(c, "maxPrice")))
}

func (h *ProductHandler) HandleGetSorted(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetSortedProducts(c.UserContext()))
}

func (h *ProductHandler) HandleGetPaged(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetPagedProducts(c.UserContext(), numberParam(c, "skip"), numberParam(c, "limit")))
}

func (h *ProductHandler) HandleGetMultiWord(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetMultiWordProducts(c.UserContext()))
}

func (h *ProductHandler) HandleGetWithCategory(c *fiber.Ctx) error {
	return sendProducts(c)(h.service.GetProductsWithCategory(c.UserContext()))
}

func (h *ProductHandler) HandleGetCategoriesWithProducts(c *fiber.Ctx) error {
	categories, err := h.service.GetCategoriesWithProducts(c.UserContext())
	if err != nil {
		return err
	}
	joined := make([]categoryWithProducts, 0, len(categories))
	for _, category := range categories {
		products := category.Products
		if products == nil {
			products = []models.Product{}
		}
		joined = append(joined, categoryWithProducts{ID: category.ID, Name: category.Name, Products: products})
	}
	return c.JSON(joined)
}

// categoryWithProducts is the join response shape; products is always
// present, "[]" for a category without products.
type categoryWithProducts struct {
	ID       string           `json:"_id"`
	Name     string           `json:"name"`
	Products []models.Product `json:"products"`
}

// sendProducts writes a product list as JSON, "[]" when empty.
func sendProducts(c *fiber.Ctx) func([]models.Product, error) error {
	return func(products []models.Product, err error) error {
		if err != nil {
			return err
		}
		if products == nil {
			products = []models.Product{}
		}
		return c.JSON(products)
	}
}

// parseProduct decodes the request body. An empty body yields an empty
// product, which validation then reports field by field.
func parseProduct(c *fiber.Ctx) (*models.Product, error) {
	var product models.Product
	if len(c.Body()) == 0 {
		return &product, nil
	}
	if err := c.BodyParser(&product); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	return &product, nil
}
