package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"freshthreads/internal/api"
	"freshthreads/internal/checkout"
	applog "freshthreads/internal/log"
	"freshthreads/internal/validate"
)

type CheckoutHandler struct {
	Flow *checkout.Flow
}

// Page renders whichever checkout step the session is on. Entry guards:
// anonymous users go home, an empty cart goes back to the product list —
// unless an order was just placed, in which case the success screen
// stays up even though the cart is now empty.
func (h *CheckoutHandler) Page(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return c.Redirect("/")
	}

	view, err := h.Flow.Begin(c.UserContext(), s.ID, s)
	if err != nil {
		if errors.Is(err, checkout.ErrNotAuthenticated) {
			return c.Redirect("/")
		}
		applog.Error(c, "checkout.load", err, nil)
		return render(c, "error", fiber.Map{"Message": "Could not load checkout. Please try again.", "Retry": "/checkout"})
	}
	if view.RedirectToProducts {
		return c.Redirect("/products")
	}

	switch view.Step {
	case checkout.StepSuccess:
		return render(c, "order_success", fiber.Map{"Order": view.Order})
	case checkout.StepPayment:
		return render(c, "payment", fiber.Map{
			"Cart":      view.Cart,
			"Address":   view.Selected,
			"Totals":    view.Totals,
			"Method":    "Cash on Delivery",
			"ItemCount": view.Cart.Count(),
		})
	default:
		return render(c, "checkout", fiber.Map{
			"Cart":      view.Cart,
			"Addresses": view.Addresses,
			"Selected":  view.Selected,
			"Totals":    view.Totals,
		})
	}
}

func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return c.Redirect("/")
	}
	addressID, ok := validate.NumID(c.FormValue("addressId"))
	if !ok {
		return redirectMsg(c, "/checkout", "Please select a delivery address")
	}
	if err := h.Flow.SelectAddress(s.ID, addressID); err != nil {
		return redirectMsg(c, "/checkout", "Please select a delivery address")
	}
	return c.Redirect("/checkout")
}

// Proceed moves to the payment confirmation screen. With no address
// selected it stays put with a validation message; nothing is sent to
// the backend.
func (h *CheckoutHandler) Proceed(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return c.Redirect("/")
	}
	if err := h.Flow.Proceed(s.ID); err != nil {
		return redirectMsg(c, "/checkout", "Please select a delivery address")
	}
	return c.Redirect("/checkout")
}

func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return c.Redirect("/")
	}
	h.Flow.Back(s.ID)
	return c.Redirect("/checkout")
}

// Place confirms the cash-on-delivery order. Failures return to the
// payment screen with the server's message and the cart intact; the
// user must re-confirm explicitly (no automatic retry, to avoid
// duplicate orders).
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	s := currentSession(c)
	if s == nil {
		return c.Redirect("/")
	}

	view, err := h.Flow.Confirm(c.UserContext(), s.ID, s)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoAddress):
			return redirectMsg(c, "/checkout", "Please select a delivery address")
		case errors.Is(err, checkout.ErrOrderInFlight):
			return redirectMsg(c, "/checkout", "Your order is already being placed")
		case errors.Is(err, checkout.ErrNothingToOrder):
			return c.Redirect("/products")
		}
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return redirectMsg(c, "/checkout", api.Message(err))
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     view.Order.ID,
		"order_number": view.Order.OrderNumber,
		"total":        view.Order.Total,
	})
	return c.Redirect("/checkout")
}
