package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
	"freshthreads/internal/validate"
)

const similarLimit = 4

type ProductHandler struct {
	Products   *services.ProductService
	Categories *services.CategoryService
}

// List renders the paginated product grid, optionally filtered by
// category.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, size := validate.Page(c.Query("page"), c.Query("size"))
	ctx := c.UserContext()

	if catID, ok := validate.ID(c.Query("category")); ok {
		products, err := h.Products.ByCategory(ctx, catID, page, size)
		if err != nil {
			applog.Error(c, "products.by_category", err, map[string]any{"category": catID})
			return render(c, "error", fiber.Map{"Message": "Could not load products. Please try again.", "Retry": c.OriginalURL()})
		}
		return render(c, "products", fiber.Map{"Products": products.Content, "Page": products, "CategoryID": catID})
	}

	products, err := h.Products.List(ctx, page, size)
	if err != nil {
		applog.Error(c, "products.list", err, nil)
		return render(c, "error", fiber.Map{"Message": "Could not load products. Please try again.", "Retry": c.OriginalURL()})
	}
	return render(c, "products", fiber.Map{"Products": products.Content, "Page": products})
}

// Detail renders a product page: images, size variants with per-size
// stock, and a similar-products rail from the same category. A size
// with zero stock renders disabled; quantity controls are capped at the
// selected size's stock.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}

	ctx := c.UserContext()
	product, err := h.Products.BySlug(ctx, slug)
	if err != nil {
		applog.Error(c, "product.detail", err, map[string]any{"slug": slug})
		return render(c, "error", fiber.Map{"Message": "Could not load this product. Please try again.", "Retry": c.OriginalURL()})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}

	similar, err := h.Products.Similar(ctx, *product, similarLimit)
	if err != nil {
		// The rail is decorative; the page still renders without it.
		applog.Error(c, "product.similar", err, map[string]any{"slug": slug})
		similar = nil
	}

	return render(c, "product", fiber.Map{
		"Product": product,
		"Similar": similar,
	})
}
