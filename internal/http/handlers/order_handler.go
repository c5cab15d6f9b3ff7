package handlers

import (
	"github.com/gofiber/fiber/v2"

	"freshthreads/internal/api"
	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
	"freshthreads/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// History lists the signed-in user's orders, paginated.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	s := currentSession(c)
	page, size := validate.Page(c.Query("page"), c.Query("size"))

	orders, err := h.Orders.MyOrders(c.UserContext(), s, page, size)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return render(c, "error", fiber.Map{"Message": api.Message(err), "Retry": "/orders"})
	}
	return render(c, "orders", fiber.Map{
		"Orders": orders.Content,
		"Page":   orders,
	})
}

// View renders one order's detail.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	s := currentSession(c)
	orderID, ok := validate.NumID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	order, err := h.Orders.Get(c.UserContext(), s, orderID)
	if err != nil {
		applog.Error(c, "order.view.fail", err, map[string]any{"order_id": orderID})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": order})
}

// Cancel cancels a PENDING order. The confirm step happens in the page
// form; here the backend has the final say.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	s := currentSession(c)
	orderID, ok := validate.NumID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing order id")
	}

	if _, err := h.Orders.Cancel(c.UserContext(), s, orderID); err != nil {
		applog.Security(c, "order.cancel.fail", map[string]any{"order_id": orderID, "error": err.Error()})
		return redirectMsg(c, "/orders", api.Message(err))
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": orderID})
	return redirectMsg(c, "/orders", "Order cancelled successfully")
}
