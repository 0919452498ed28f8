package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/rtree"
	"go.uber.org/zap"
)

// Snapshot is an immutable view of a catalog and its spatial index
type Snapshot struct {
	Catalog  *Catalog
	Index    *rtree.GeoIndex
	LoadedAt time.Time
}

// Store holds the current snapshot. Replacing it never mutates a snapshot
// another goroutine may still be reading.
type Store struct {
	mu       sync.RWMutex
	snap     *Snapshot
	logger   *zap.Logger
	watchers []func(*Snapshot)
}

// NewStore indexes c and makes it the current snapshot
func NewStore(c *Catalog, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}
	if err := s.Replace(c); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the current catalog and index
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace indexes c and swaps it in. On error the previous snapshot stays current.
func (s *Store) Replace(c *Catalog) error {
	index := rtree.NewGeoIndex()
	if err := index.IndexPoints(c.Points); err != nil {
		return fmt.Errorf("failed to index catalog: %w", err)
	}
	snap := &Snapshot{Catalog: c, Index: index, LoadedAt: time.Now()}

	s.mu.Lock()
	s.snap = snap
	watchers := append([]func(*Snapshot){}, s.watchers...)
	s.mu.Unlock()

	s.logger.Info("catalog replaced",
		zap.Int("points", len(c.Points)),
		zap.Int("articles", len(c.Articles)),
		zap.Int("facts", len(c.Facts)))

	for _, fn := range watchers {
		fn(snap)
	}
	return nil
}

// OnReplace registers fn to run after every successful Replace
func (s *Store) OnReplace(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}
