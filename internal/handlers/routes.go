package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/auth"
	"github.com/jjenkins/neows/internal/store"
)

// Deps are the collaborators the dashboard routes close over
type Deps struct {
	Sessions *store.SessionStore
	Details  DetailFetcher
	GitHub   *auth.GitHub
	Chrome   Chrome
}

// Register mounts the dashboard routes. Health is mounted ahead of the
// session middleware so probes do not create sessions.
func Register(app *fiber.App, d Deps) {
	app.Get("/healthz", HealthHandler(d.Sessions))

	app.Use(SessionMiddleware(d.Sessions))

	app.Get("/", HomeHandler(d.Chrome))
	app.Post("/search", SearchHandler())
	app.Post("/reload", ReloadHandler())
	app.Post("/more", LoadMoreHandler())

	app.Post("/select/:id", SelectHandler())
	app.Get("/compare", CompareHandler(d.Chrome))
	app.Get("/neo/:id", NeoDetailHandler(d.Details, d.Chrome))

	app.Get("/login", LoginHandler(d.GitHub))
	app.Get("/auth/callback", CallbackHandler(d.GitHub))
	app.Post("/logout", LogoutHandler())
}
