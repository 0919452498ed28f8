package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/metrics"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/postgis"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Long: `Starts the JSON API with points, markers, nearest search, articles and
Prometheus metrics. With --watch the catalog file is reloaded on change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload the catalog file on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWatch {
		cfg.Catalog.Watch = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(c, logger)
	if err != nil {
		return err
	}

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	collector.ObserveCatalog(c.Points)
	store.OnReplace(func(s *catalog.Snapshot) {
		collector.ObserveCatalog(s.Catalog.Points)
	})

	if cfg.Catalog.Watch {
		switch {
		case cfg.Catalog.Path == "":
			logger.Warn("catalog watch requested without a catalog file")
		case cfg.PostGIS.Enabled:
			logger.Warn("catalog watch is disabled while points come from postgis")
		default:
			w, err := catalog.NewWatcher(cfg.Catalog.Path, store, logger)
			if err != nil {
				return err
			}
			w.OnReload = collector.ObserveReload
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()
		}
	}

	api := server.New(store, collector, logger)
	if cfg.PostGIS.Enabled {
		pg, err := postgis.Open(ctx, cfg.DSN(), cfg.PostGIS.MaxConnections, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		api.WithBoxQuerier(pg)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
