package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"freshthreads/internal/api"
	"freshthreads/internal/session"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if s := currentSession(c); s != nil {
		data["User"] = s.User
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	// Non-blocking notification: messages travel as a query param and
	// render as a dismissible banner.
	if msg := c.Query("msg"); msg != "" {
		data["Msg"] = msg
	}
	return c.Render(tmpl, data)
}

// redirectMsg sends the user to path with a banner message attached.
func redirectMsg(c *fiber.Ctx, path, msg string) error {
	if msg == "" {
		return c.Redirect(path)
	}
	return c.Redirect(path + "?msg=" + url.QueryEscape(msg))
}

func currentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals("sess").(*session.Session)
	return s
}

// creds returns the API credentials for the request, or a true nil
// interface for anonymous requests (a typed nil would defeat the
// client's nil checks).
func creds(c *fiber.Ctx) api.Credentials {
	if s := currentSession(c); s != nil {
		return s
	}
	return nil
}

// sid returns the session id used to key per-session stores; empty for
// anonymous requests.
func sid(c *fiber.Ctx) string {
	if s := currentSession(c); s != nil {
		return s.ID
	}
	return ""
}
