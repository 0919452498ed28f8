// Package config loads repunto settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure for YAML configuration
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Catalog struct {
		Path  string `yaml:"path"`
		Watch bool   `yaml:"watch"`
	} `yaml:"catalog"`
	PostGIS struct {
		Enabled           bool   `yaml:"enabled"`
		Host              string `yaml:"host"`
		Port              int    `yaml:"port"`
		User              string `yaml:"user"`
		Password          string `yaml:"password"`
		Database          string `yaml:"database"`
		MaxConnections    int    `yaml:"max_connections"`
		ConnectionTimeout int    `yaml:"connection_timeout"`
	} `yaml:"postgis"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		// File receives the logs of the terminal map; empty replays them on stderr at exit
		File string `yaml:"file"`
	} `yaml:"logging"`
	Map struct {
		CenterLat  float64 `yaml:"center_lat"`
		CenterLon  float64 `yaml:"center_lon"`
		SpanMeters float64 `yaml:"span_meters"`
		Theme      string  `yaml:"theme"`
	} `yaml:"map"`
}

// Default returns the settings used when no file is present
func Default() Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 5 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.PostGIS.Host = "localhost"
	c.PostGIS.Port = 5432
	c.PostGIS.User = "repunto"
	c.PostGIS.Database = "repunto"
	c.PostGIS.MaxConnections = 10
	c.PostGIS.ConnectionTimeout = 5
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Map.CenterLat = 38.5598
	c.Map.CenterLon = 68.7870
	c.Map.SpanMeters = 5000
	c.Map.Theme = "light"
	return c
}

// Load reads path over the defaults. When path does not exist, path+".example"
// is tried; when neither exists the defaults are used. Environment overrides
// are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			data, err = os.ReadFile(path + ".example")
		}
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN returns the lib/pq connection string for the PostGIS section
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
		c.PostGIS.Host, c.PostGIS.Port, c.PostGIS.User, c.PostGIS.Password, c.PostGIS.Database, c.PostGIS.ConnectionTimeout)
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	strVars := map[string]*string{
		"REPUNTO_ADDR":             &cfg.Server.Addr,
		"REPUNTO_CATALOG":          &cfg.Catalog.Path,
		"REPUNTO_LOG_LEVEL":        &cfg.Logging.Level,
		"REPUNTO_LOG_FORMAT":       &cfg.Logging.Format,
		"REPUNTO_LOG_FILE":         &cfg.Logging.File,
		"REPUNTO_POSTGIS_HOST":     &cfg.PostGIS.Host,
		"REPUNTO_POSTGIS_USER":     &cfg.PostGIS.User,
		"REPUNTO_POSTGIS_PASSWORD": &cfg.PostGIS.Password,
		"REPUNTO_POSTGIS_DATABASE": &cfg.PostGIS.Database,
		"REPUNTO_THEME":            &cfg.Map.Theme,
	}
	for key, dst := range strVars {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("REPUNTO_POSTGIS_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPUNTO_POSTGIS_PORT %q: %w", v, err)
		}
		cfg.PostGIS.Port = port
	}

	boolVars := map[string]*bool{
		"REPUNTO_CATALOG_WATCH":   &cfg.Catalog.Watch,
		"REPUNTO_POSTGIS_ENABLED": &cfg.PostGIS.Enabled,
	}
	for key, dst := range boolVars {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = b
		}
	}
	return nil
}
