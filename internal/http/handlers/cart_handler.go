package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"freshthreads/internal/cart"
	applog "freshthreads/internal/log"
	"freshthreads/internal/validate"
)

type CartHandler struct {
	Carts *cart.Store
}

// View renders the cart panel. Anonymous visitors see an empty cart
// with a sign-in prompt.
func (h *CartHandler) View(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return render(c, "cart", fiber.Map{"SignIn": true})
	}
	cartData, err := h.Carts.Sync(c.UserContext(), s.ID, s)
	if err != nil {
		applog.Error(c, "cart.load", err, nil)
		return render(c, "error", fiber.Map{"Message": "Could not load your cart. Please try again.", "Retry": "/cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cartData})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.NumID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	sizeID, ok := validate.NumID(c.FormValue("sizeId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing sizeId")
	}
	maxQty := validate.Qty(c.FormValue("maxQty"), cart.MaxCartItems)
	qty := validate.Qty(c.FormValue("qty"), maxQty)

	res := h.Carts.AddToCart(c.UserContext(), sid(c), creds(c), productID, sizeID, qty)
	if res.SignIn {
		applog.Info(c, "cart.add.signin_prompt", map[string]any{"product": productID})
		return c.Redirect("/login")
	}
	if !res.OK() {
		applog.Security(c, "cart.add.fail", map[string]any{"product": productID, "error": res.Message})
		return redirectMsg(c, "/cart", res.Message)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "size": sizeID, "qty": qty})
	return c.Redirect("/cart") // open the cart panel after adding
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, ok := validate.NumID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing cart item id")
	}
	// Quantities below 1 must reach the store unclamped: they are a
	// local no-op, not an update to 1.
	qty, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if qty > cart.MaxCartItems {
		qty = cart.MaxCartItems
	}

	res := h.Carts.UpdateQuantity(c.UserContext(), sid(c), creds(c), itemID, qty)
	if res.SignIn {
		return c.Redirect("/login")
	}
	if !res.OK() {
		return redirectMsg(c, "/cart", res.Message)
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, ok := validate.NumID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing cart item id")
	}
	res := h.Carts.RemoveFromCart(c.UserContext(), sid(c), creds(c), itemID)
	if res.SignIn {
		return c.Redirect("/login")
	}
	if !res.OK() {
		return redirectMsg(c, "/cart", res.Message)
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	res := h.Carts.Clear(c.UserContext(), sid(c), creds(c))
	if res.SignIn {
		return c.Redirect("/login")
	}
	if !res.OK() {
		return redirectMsg(c, "/cart", res.Message)
	}
	applog.Audit(c, "cart.clear", nil)
	return c.Redirect("/cart")
}
