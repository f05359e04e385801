package cmd

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jjenkins/neows/internal/auth"
	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/handlers"
	"github.com/jjenkins/neows/internal/metrics"
	"github.com/jjenkins/neows/internal/service"
	"github.com/jjenkins/neows/internal/store"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the near-earth object dashboard",
	Long:  `Start the web dashboard for browsing NeoWs close approaches by date range.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		// Flag wins over PORT when given explicitly
		if !cmd.Flags().Changed("port") {
			port = cfg.Port
		}

		client := newClient(cfg)
		aggregator := service.NewAggregator(client)

		sessions := store.NewSessionStore(func() *dashboard.Controller {
			return dashboard.NewController(aggregator)
		}, cfg.SessionTTL)

		gh := auth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.CallbackURL(port))
		if !cfg.AuthEnabled() {
			log.Println("GitHub sign-in disabled: GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set")
		}

		ctx, cancel := interruptible()
		defer cancel()

		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := sessions.Prune(); n > 0 {
						log.Printf("Pruned %d idle sessions", n)
					}
				}
			}
		}()

		app := fiber.New(fiber.Config{
			AppName: "NEO Watch",
		})

		app.Use(recover.New())
		app.Use(logger.New())
		app.Use(metrics.Middleware())

		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

		handlers.Register(app, handlers.Deps{
			Sessions: sessions,
			Details:  client,
			GitHub:   gh,
			Chrome: handlers.Chrome{
				AuthEnabled: gh.Enabled(),
				DemoKey:     client.UsingDemoKey(),
			},
		})

		go func() {
			<-ctx.Done()
			if err := app.Shutdown(); err != nil {
				log.Printf("Error shutting down: %v", err)
			}
		}()

		log.Printf("Starting server on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}
