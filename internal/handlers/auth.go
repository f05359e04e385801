package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/auth"
)

// LoginHandler redirects to the GitHub consent page
func LoginHandler(gh *auth.GitHub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !gh.Enabled() {
			return c.Status(fiber.StatusNotFound).SendString("Sign-in is not configured")
		}

		url, err := gh.AuthCodeURL(currentSession(c).NewOAuthState())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error starting sign-in")
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// CallbackHandler completes the GitHub sign-in and records the login name
func CallbackHandler(gh *auth.GitHub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := currentSession(c)

		if !sess.ConsumeOAuthState(c.Query("state")) {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid sign-in state")
		}
		if reason := c.Query("error"); reason != "" {
			log.Printf("Sign-in declined: %s", reason)
			return c.Redirect("/", fiber.StatusSeeOther)
		}

		login, err := gh.Login(c.UserContext(), c.Query("code"))
		if err != nil {
			log.Printf("Error completing sign-in: %v", err)
			return c.Status(fiber.StatusBadGateway).SendString("Sign-in failed")
		}

		sess.SetUser(login)
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// LogoutHandler forgets the signed-in user, keeping the dashboard state
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		currentSession(c).SetUser("")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
