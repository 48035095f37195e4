package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slicerweb/internal/config"
	"slicerweb/internal/profiles"
	"slicerweb/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP service until SIGINT or SIGTERM.
func Serve(c *config.Config) error {
	cs, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := profiles.NewLoader(
		profiles.NewFetcher(c.Profiles, nil),
		cs.logger,
		profiles.WithPrefetchConcurrency(c.PrefetchConcurrency),
	)

	srv := server.New(server.Options{
		Profiles:       loader,
		Slicer:         cs.client,
		Static:         staticProfiles(c.Profiles),
		RequestTimeout: c.RequestTimeout,
		MaxUpload:      c.MaxUpload,
		Logger:         cs.logger,
	})

	go func() {
		sc, err := cs.loadSchema(ctx, c.Schema)
		if err != nil {
			cs.logger.Error("schema unavailable", "error", err)
			srv.SetSchemaError(err)

			return
		}

		cs.logger.Info("schema ready", "fields", sc.FieldCount(), "sections", len(sc.Sections))
		srv.SetSchema(sc)
	}()

	go warmProfiles(ctx, cs, loader, c.Prefetch)

	httpServer := &http.Server{
		Addr:              c.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		cs.logger.Info("listening", "addr", c.Listen, "profiles", c.Profiles)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}

		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	cs.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errc
}

// warmProfiles loads the index and, when a tier is configured, prefetches
// its vendors. Failures are logged; the routes retry on demand.
func warmProfiles(ctx context.Context, cs *components, loader *profiles.Loader, prefetch string) {
	ix, err := loader.LoadIndex(ctx)
	if err != nil {
		cs.logger.Warn("profile index unavailable", "error", err)

		return
	}

	cs.logger.Info("profile index loaded", "version", ix.Version, "vendors", len(ix.Vendors()))

	if prefetch == "" {
		return
	}

	tier, err := profiles.ParseTier(prefetch)
	if err != nil {
		cs.logger.Warn("prefetch skipped", "error", err)

		return
	}

	res, err := loader.PrefetchTier(ctx, tier)
	if err != nil {
		cs.logger.Warn("prefetch failed", "tier", tier, "error", err)

		return
	}

	cs.logger.Info("prefetch done", "tier", tier, "loaded", len(res.Loaded), "failed", len(res.Failed))
}

// staticProfiles exposes a local profile directory over HTTP so the
// index URLs resolve against this service. Remote storage is not proxied.
func staticProfiles(root string) http.FileSystem {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return nil
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}

	return http.Dir(root)
}
