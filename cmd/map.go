package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/logging"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/toggle"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var mapTheme string

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Open the interactive map in the terminal",
	Long: `Runs the terminal client: home screen with facts, material filter with
the marker list, blog and point details. Press m for the menu and q to quit.`,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVar(&mapTheme, "theme", "", "Color theme: light or dark (overrides config)")
}

func runMap(cmd *cobra.Command, args []string) error {
	// Logs would draw over the UI, so they go to the log file or are replayed
	// on stderr once the program exits
	var session bytes.Buffer
	var out io.Writer = &session
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	var err error
	logger, err = logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
		Output:  zapcore.Lock(zapcore.AddSync(out)),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
		if session.Len() > 0 {
			_, _ = os.Stderr.Write(session.Bytes())
		}
	}()

	if mapTheme != "" {
		cfg.Map.Theme = mapTheme
	}

	c, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	store, err := catalog.NewStore(c, logger)
	if err != nil {
		return err
	}

	model := tui.New(store.Snapshot(), tui.Options{
		Theme:      toggle.ParseTheme(cfg.Map.Theme),
		Center:     models.Location{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
		SpanMeters: cfg.Map.SpanMeters,
		Logger:     logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	tui.Watch(p, store)

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" && !cfg.PostGIS.Enabled {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := catalog.NewWatcher(cfg.Catalog.Path, store, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run map: %w", err)
	}
	return nil
}
