package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/server"
)

// Serve starts the JSON API server and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := int(cmd.Int("port"))
	if port == 0 {
		port = r.config.Server.Port
	}

	handler := server.NewAPIHandler(
		r.apiCatalog(), r.apiSetlists(), r.apiScrobbler(),
		r.aggregator, r.resolver, r.logger,
	)

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting API server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	notifyCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-notifyCtx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	return nil
}

// The API handler takes narrow interfaces; typed nils from missing
// configuration must collapse to untyped nil.
func (r *Runner) apiCatalog() server.Catalog {
	if r.jamendo == nil {
		return nil
	}
	return r.jamendo
}

func (r *Runner) apiSetlists() server.Setlists {
	if r.setlists == nil {
		return nil
	}
	return r.setlists
}

func (r *Runner) apiScrobbler() server.Scrobbler {
	if r.listenbz == nil {
		return nil
	}
	return r.listenbz
}
