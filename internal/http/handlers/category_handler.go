package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
	"freshthreads/internal/validate"
)

type CategoryHandler struct {
	Categories *services.CategoryService
	Products   *services.ProductService
}

// Home renders the landing page: category rail plus a featured slice of
// the catalog.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cats, err := h.Categories.All(ctx)
	if err != nil {
		applog.Error(c, "home.categories", err, nil)
		return render(c, "error", fiber.Map{"Message": "Could not load the store. Please try again.", "Retry": "/"})
	}
	featured, err := h.Products.List(ctx, 0, 8)
	if err != nil {
		applog.Error(c, "home.products", err, nil)
		return render(c, "error", fiber.Map{"Message": "Could not load products. Please try again.", "Retry": "/"})
	}
	return render(c, "home", fiber.Map{
		"Categories": cats,
		"Featured":   featured.Content,
	})
}

// List renders one category's products.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	page, size := validate.Page(c.Query("page"), c.Query("size"))

	ctx := c.UserContext()
	cat, err := h.Categories.Get(ctx, catID)
	if err != nil {
		applog.Error(c, "category.get", err, map[string]any{"category": catID})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	products, err := h.Products.ByCategory(ctx, catID, page, size)
	if err != nil {
		applog.Error(c, "category.products", err, map[string]any{"category": catID})
		return render(c, "error", fiber.Map{"Message": "Could not load products. Please try again.", "Retry": c.OriginalURL()})
	}
	return render(c, "products", fiber.Map{
		"Category": cat,
		"Products": products.Content,
		"Page":     products,
	})
}
