package handlers

import (
	"github.com/gofiber/fiber/v2"

	"freshthreads/internal/api"
	"freshthreads/internal/checkout"
	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
	"freshthreads/internal/validate"
)

type AddressHandler struct {
	Addresses *services.AddressService
	Flow      *checkout.Flow
}

// Create saves a new delivery address from the add-address form.
// Required fields are checked here, before any request is sent; on
// success the checkout address list is reloaded so the new address is
// selectable immediately.
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	s := currentSession(c)

	fullName, ok := validate.Name(c.FormValue("fullName"))
	if !ok {
		return redirectMsg(c, "/checkout", "Please fill in all required fields")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return redirectMsg(c, "/checkout", "Please enter a valid email")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		return redirectMsg(c, "/checkout", "Please enter a valid phone number")
	}
	street, ok := validate.Line(c.FormValue("address"), 200)
	if !ok {
		return redirectMsg(c, "/checkout", "Please fill in all required fields")
	}
	city, ok := validate.Line(c.FormValue("city"), 80)
	if !ok {
		return redirectMsg(c, "/checkout", "Please fill in all required fields")
	}

	req := services.AddressRequest{
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		Street:    street,
		City:      city,
		IsDefault: c.FormValue("isDefault") == "on",
	}

	addr, err := h.Addresses.Create(c.UserContext(), s, req)
	if err != nil {
		applog.Error(c, "address.create.fail", err, nil)
		return redirectMsg(c, "/checkout", api.Message(err))
	}

	if _, err := h.Flow.ReloadAddresses(c.UserContext(), s.ID, s); err != nil {
		applog.Error(c, "address.reload.fail", err, nil)
	} else {
		// Newly added addresses are usually the one the user wants.
		_ = h.Flow.SelectAddress(s.ID, addr.ID)
	}

	applog.Audit(c, "address.create", map[string]any{"address_id": addr.ID})
	return redirectMsg(c, "/checkout", "Address added successfully")
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	s := currentSession(c)
	addressID, ok := validate.NumID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing address id")
	}

	if err := h.Addresses.Delete(c.UserContext(), s, addressID); err != nil {
		applog.Error(c, "address.delete.fail", err, map[string]any{"address_id": addressID})
		return redirectMsg(c, "/checkout", api.Message(err))
	}
	if _, err := h.Flow.ReloadAddresses(c.UserContext(), s.ID, s); err != nil {
		applog.Error(c, "address.reload.fail", err, nil)
	}
	applog.Audit(c, "address.delete", map[string]any{"address_id": addressID})
	return c.Redirect("/checkout")
}
