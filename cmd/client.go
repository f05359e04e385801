package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjenkins/neows/internal/config"
	"github.com/jjenkins/neows/internal/service"
)

func loadConfig() config.Config {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.UsingDemoKey() {
		log.Println("WARNING: NASA_API_KEY is not set, using the shared DEMO_KEY (30 requests/hour)")
	}
	return cfg
}

func newClient(cfg config.Config) *service.NeoWsClient {
	return service.NewNeoWsClient(service.ClientOptions{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		CacheTTL:      cfg.CacheTTL,
		CacheCapacity: cfg.CacheCapacity,
	})
}

// interruptible returns a context cancelled on SIGINT or SIGTERM
func interruptible() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Println("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
