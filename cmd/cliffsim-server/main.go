// Command cliffsim-server runs the HTTP front end: it loads configuration,
// wires up both simulator backends, and serves circuit execution and
// cross-check requests until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cliffsim/cliffsim/internal/app"
	"github.com/cliffsim/cliffsim/internal/config"

	// Registering a backend by name requires importing its package for
	// its init() side effect.
	_ "github.com/cliffsim/cliffsim/qc/simulator/itsu"
	_ "github.com/cliffsim/cliffsim/qc/simulator/stab"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configFile := flag.String("config", "", "optional configuration file")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	srv, err := app.NewServer(app.ServerOptions{C: cfg, Version: version})
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.GetInt("port"), cfg.GetBool("local_only"))
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("graceful shutdown failed: %v", err)
		}
	}
}
