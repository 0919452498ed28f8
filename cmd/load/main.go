package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/config"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/logging"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/postgis"
	"go.uber.org/zap"
)

func main() {
	var (
		configFile  = flag.String("config", "config.yaml", "Config file path")
		catalogFile = flag.String("f", "", "Catalog file path (config or built-in catalog when empty)")
		keep        = flag.Bool("keep", false, "Append to the existing table instead of recreating it")
		timeout     = flag.Duration("timeout", 5*time.Minute, "Overall load timeout")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalogFile != "" {
		cfg.Catalog.Path = *catalogFile
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	c := catalog.Default()
	if cfg.Catalog.Path != "" {
		if c, err = catalog.Load(cfg.Catalog.Path); err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := postgis.Open(ctx, cfg.DSN(), cfg.PostGIS.MaxConnections, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgis", zap.Error(err))
	}
	defer store.Close()

	if !*keep {
		if err := store.InitSchema(ctx); err != nil {
			logger.Fatal("failed to init schema", zap.Error(err))
		}
	}

	start := time.Now()
	if err := store.BulkInsertPoints(ctx, c.Points); err != nil {
		logger.Fatal("failed to insert points", zap.Error(err))
	}
	logger.Info("points inserted",
		zap.Int("points", len(c.Points)),
		zap.Duration("elapsed", time.Since(start)))

	if err := store.CreateSpatialIndex(ctx); err != nil {
		logger.Fatal("failed to create spatial index", zap.Error(err))
	}

	count, err := store.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count points", zap.Error(err))
	}
	logger.Info("load complete", zap.Int64("total_points", count))
}
