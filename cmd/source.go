package main

import (
	"context"
	"fmt"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/postgis"
	"go.uber.org/zap"
)

// loadCatalog reads the configured catalog file, or the built-in one when no
// path is set. With PostGIS enabled the points come from the database and
// articles and facts from the file.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c := catalog.Default()
	if cfg.Catalog.Path != "" {
		var err error
		if c, err = catalog.Load(cfg.Catalog.Path); err != nil {
			return nil, err
		}
	}

	if !cfg.PostGIS.Enabled {
		logger.Info("catalog loaded",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("points", len(c.Points)))
		return c, nil
	}

	store, err := postgis.Open(ctx, cfg.DSN(), cfg.PostGIS.MaxConnections, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	points, err := store.Points(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read points from postgis: %w", err)
	}
	logger.Info("points loaded from postgis",
		zap.String("host", cfg.PostGIS.Host),
		zap.Int("points", len(points)))

	return catalog.New(points, c.Articles, c.Facts)
}
