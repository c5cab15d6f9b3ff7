package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"freshthreads/internal/auth"
	"freshthreads/internal/cart"
	"freshthreads/internal/checkout"
	applog "freshthreads/internal/log"
	"freshthreads/internal/services"
	"freshthreads/internal/session"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	OAuth *auth.OAuth
	Auth  *services.AuthService
	Carts *cart.Store
	Flow  *checkout.Flow
}

// LoginForm renders the sign-in page (the modal equivalent for
// anonymous cart actions).
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/")
	}
	return render(c, "login", fiber.Map{})
}

// Begin starts the provider redirect with a fresh CSRF state nonce.
func (h *AuthHandler) Begin(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(h.OAuth.AuthCodeURL(state))
}

// Callback finishes the provider round trip: state check, code
// exchange, backend login, local session issue.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		applog.Security(c, "auth.callback.state_mismatch", nil)
		return c.Status(fiber.StatusForbidden).Render("login", fiber.Map{"Err": "Sign-in failed. Please try again."})
	}
	code := c.Query("code")
	if code == "" {
		applog.Security(c, "auth.callback.no_code", nil)
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{"Err": "Sign-in was cancelled."})
	}

	sess, cookieVal, err := h.OAuth.HandleCallback(c.UserContext(), code)
	if err != nil {
		applog.Error(c, "auth.callback.fail", err, nil)
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Sign-in failed. Please try again."})
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    cookieVal,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
	clearStateCookie(c)

	applog.Audit(c, "auth.login.success", map[string]any{"email": sess.User.Email})
	return c.Redirect("/")
}

// Logout invalidates the backend session first, then tears down every
// piece of local per-session state: the session row, the cart mirror,
// and any in-progress checkout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s := currentSession(c)
	if s != nil {
		if err := h.Auth.SignOut(c.UserContext(), s); err != nil {
			applog.Error(c, "auth.logout.fail", err, nil)
		}
		h.Carts.Discard(s.ID)
		h.Flow.Reset(s.ID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}

func clearStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
