package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"freshthreads/internal/api"
	"freshthreads/internal/config"
	"freshthreads/internal/http/handlers"
	applog "freshthreads/internal/log"
	"freshthreads/internal/session"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	store, err := session.OpenStore(cfg.SessionDSN)
	if err != nil {
		log.Fatal(err)
	}
	sessions := session.NewManager(store, cfg.SessionSecret)
	apiClient := api.New(cfg.APIBaseURL)

	// Drop session rows that outlived the cookie lifetime.
	go func() {
		for range time.Tick(time.Hour) {
			if n, err := store.PurgeBefore(time.Now().Add(-7 * 24 * time.Hour)); err != nil {
				log.Printf("[warn] session purge failed: %v", err)
			} else if n > 0 {
				log.Printf("[info] purged %d expired sessions", n)
			}
		}
	}()

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach the session to context if signed in (for templates/guards)
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Cookies(session.CookieName); raw != "" {
			s, err := sessions.Current(raw)
			if err != nil {
				// Store trouble must not 500 the page, but it has to
				// leave a trace: the user is treated as anonymous.
				applog.Error(c, "session.resolve", err, nil)
			} else if s != nil {
				c.Locals("sess", s)
				c.Locals("user_id", s.User.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The OAuth callback is a provider GET with its own state check.
			return c.Path() == "/auth/callback"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", "./web/static")

	// ---------- App handlers ----------
	deps := handlers.NewDeps(cfg, apiClient, sessions)

	// Public pages
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:slug", deps.ProductHandler.Detail)
	app.Get("/category/:id", deps.CategoryHandler.List)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/items/:id", deps.CartHandler.UpdateItem)
	app.Post("/cart/items/:id/remove", deps.CartHandler.RemoveItem)
	app.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout
	app.Get("/checkout", deps.CheckoutHandler.Page)
	app.Post("/checkout/address", deps.CheckoutHandler.SelectAddress)
	app.Post("/checkout/payment", deps.CheckoutHandler.Proceed)
	app.Post("/checkout/back", deps.CheckoutHandler.Back)
	app.Post("/orders", deps.CheckoutHandler.Place)

	// Orders & account (signed-in only)
	app.Get("/orders", handlers.RequireUser(), deps.OrderHandler.History)
	app.Get("/orders/:id", handlers.RequireUser(), deps.OrderHandler.View)
	app.Post("/orders/:id/cancel", handlers.RequireUser(), deps.OrderHandler.Cancel)
	app.Get("/account", handlers.RequireUser(), deps.AccountHandler.Profile)

	// Addresses (checkout modal endpoints)
	app.Post("/addresses", handlers.RequireUser(), deps.AddressHandler.Create)
	app.Post("/addresses/:id/delete", handlers.RequireUser(), deps.AddressHandler.Delete)

	// Auth (sign-in throttled)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Get("/auth/google", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Begin)
	app.Get("/auth/callback", deps.AuthHandler.Callback)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
