package handlers

import (
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jjenkins/neows/internal/store"
	"github.com/jjenkins/neows/internal/templates"
)

// SessionCookie names the cookie carrying the visitor's session id
const SessionCookie = "neows_session"

const sessionKey = "session"

// Chrome carries the site-wide flags every page header needs
type Chrome struct {
	AuthEnabled bool
	DemoKey     bool
}

// SessionMiddleware attaches the visitor's session to the request, issuing a
// new cookie when the session is new or has expired.
func SessionMiddleware(sessions *store.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, created := sessions.Get(c.Cookies(SessionCookie))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

func currentSession(c *fiber.Ctx) *store.Session {
	sess, _ := c.Locals(sessionKey).(*store.Session)
	return sess
}

func layout(c *fiber.Ctx, chrome Chrome) templates.LayoutData {
	sess := currentSession(c)
	return templates.LayoutData{
		User:           sess.User(),
		AuthEnabled:    chrome.AuthEnabled,
		SelectionCount: sess.Controller.Snapshot().SelectionCount,
		DemoKey:        chrome.DemoKey,
	}
}

func render(c *fiber.Ctx, page templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(page))
	return handler(c)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}
