// Package postgis persists recycling points in a PostGIS table and serves
// bounding box queries from its GIST index.
package postgis

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	table     = "recycling_points"
	batchSize = 10000
)

// Store is a PostGIS backed point store
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects with a lib/pq DSN and verifies the connection
func Open(ctx context.Context, dsn string, maxConns int, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, logger: logger}, nil
}

// InitSchema recreates the points table
func (s *Store) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		`DROP TABLE IF EXISTS ` + table + `;`,
		`CREATE TABLE ` + table + ` (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			material TEXT NOT NULL,
			title TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			photos TEXT[] NOT NULL DEFAULT '{}',
			contacts TEXT[] NOT NULL DEFAULT '{}',
			location GEOMETRY(POINT, 4326) NOT NULL
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", firstLine(query), err)
		}
	}
	return nil
}

// CreateSpatialIndex adds the GIST and material indexes and analyzes the table
func (s *Store) CreateSpatialIndex(ctx context.Context) error {
	start := time.Now()
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + table + `_location ON ` + table + ` USING GIST(location);`,
		`CREATE INDEX IF NOT EXISTS idx_` + table + `_material ON ` + table + ` (material);`,
		`ANALYZE ` + table + `;`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create spatial index: %w", err)
		}
	}

	s.logger.Info("created spatial index", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// BulkInsertPoints inserts points in transactions of batchSize rows
func (s *Store) BulkInsertPoints(ctx context.Context, points []*models.RecyclingPoint) error {
	stmt, err := s.db.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for start := 0; start < len(points); start += batchSize {
		end := start + batchSize
		if end > len(points) {
			end = len(points)
		}
		if err := s.insertBatch(ctx, stmt, points[start:end]); err != nil {
			return err
		}
		s.logger.Debug("inserted batch", zap.Int("rows", end-start), zap.Int("total", end))
	}
	return nil
}

const insertQuery = `
	INSERT INTO ` + table + ` (id, material, title, address, description, photos, contacts, location)
	VALUES ($1, $2, $3, $4, $5, $6, $7, ST_SetSRID(ST_MakePoint($8, $9), 4326))
`

func (s *Store) insertBatch(ctx context.Context, stmt *sql.Stmt, points []*models.RecyclingPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txStmt := tx.StmtContext(ctx, stmt)

	for _, p := range points {
		_, err := txStmt.ExecContext(ctx, insertArgs(p)...)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert point %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func insertArgs(p *models.RecyclingPoint) []interface{} {
	return []interface{}{
		p.ID, string(p.Material), p.Title, p.Address, p.Description,
		pq.Array(nonNil(p.Photos)), pq.Array(nonNil(p.Contacts)),
		p.Location.Lon, p.Location.Lat,
	}
}

const selectColumns = `id, material, title, address, description, photos, contacts,
	ST_Y(location) AS lat, ST_X(location) AS lon`

// Points returns every stored point in insertion order
func (s *Store) Points(ctx context.Context) ([]*models.RecyclingPoint, error) {
	query := `SELECT ` + selectColumns + ` FROM ` + table + ` ORDER BY seq`
	return s.query(ctx, query)
}

// QueryBox returns the points inside box whose material is in sel, in
// insertion order. An empty selection matches every material.
func (s *Store) QueryBox(ctx context.Context, box models.BoundingBox, sel filter.Selection) ([]*models.RecyclingPoint, error) {
	query, args := boxQuery(box, sel)
	return s.query(ctx, query, args...)
}

func boxQuery(box models.BoundingBox, sel filter.Selection) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(`SELECT ` + selectColumns + ` FROM ` + table)
	b.WriteString(` WHERE location && ST_MakeEnvelope($1, $2, $3, $4, 4326)`)

	args := []interface{}{
		box.BottomLeft.Lon, box.BottomLeft.Lat,
		box.TopRight.Lon, box.TopRight.Lat,
	}
	if !sel.Empty() {
		materials := make([]string, 0, sel.Len())
		for _, m := range sel.Materials() {
			materials = append(materials, string(m))
		}
		b.WriteString(` AND material = ANY($5)`)
		args = append(args, pq.Array(materials))
	}
	b.WriteString(` ORDER BY seq`)
	return b.String(), args
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) ([]*models.RecyclingPoint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var results []*models.RecyclingPoint
	for rows.Next() {
		var (
			p        models.RecyclingPoint
			material string
			photos   pq.StringArray
			contacts pq.StringArray
		)
		if err := rows.Scan(&p.ID, &material, &p.Title, &p.Address, &p.Description,
			&photos, &contacts, &p.Location.Lat, &p.Location.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		m, err := models.ParseMaterial(material)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", p.ID, err)
		}
		p.Material = m
		p.Photos = []string(photos)
		p.Contacts = []string(contacts)
		results = append(results, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// Count returns the number of stored points
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func firstLine(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		return q[:i]
	}
	return q
}
