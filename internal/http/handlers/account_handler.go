package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
)

type AccountHandler struct {
	Orders *services.OrderService
}

// Profile renders the account page: identity fields from the session
// plus a short slice of recent orders.
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	s := currentSession(c)

	recent, err := h.Orders.MyOrders(c.UserContext(), s, 0, 5)
	if err != nil {
		// The profile still renders without the order rail.
		applog.Error(c, "account.orders", err, nil)
	}

	expiry, hasExpiry := s.TokenExpiry()
	return render(c, "account", fiber.Map{
		"Recent":      recent.Content,
		"HasToken":    s.HasBackendToken(),
		"TokenExpiry": expiry,
		"HasExpiry":   hasExpiry,
	})
}
