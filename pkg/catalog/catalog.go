// Package catalog loads the recycling points, articles and facts the app serves,
// and keeps the current set swappable at runtime.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidCatalog wraps every validation failure found while loading
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrNotFound is returned when a point or article does not exist
	ErrNotFound = errors.New("not found")
)

// Catalog is the static content of the app
type Catalog struct {
	Points   []*models.RecyclingPoint `yaml:"points" json:"points"`
	Articles []*models.Article        `yaml:"articles" json:"articles"`
	Facts    []string                 `yaml:"facts" json:"facts"`

	byID   map[string]*models.RecyclingPoint
	bySlug map[string]*models.Article
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and validates it
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		if errors.Is(err, models.ErrUnknownMaterial) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return &c, nil
}

// New builds a validated catalog from in-memory values
func New(points []*models.RecyclingPoint, articles []*models.Article, facts []string) (*Catalog, error) {
	c := &Catalog{Points: points, Articles: articles, Facts: facts}
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return c, nil
}

// prepare assigns missing IDs, validates every record and builds lookups
func (c *Catalog) prepare() error {
	var problems []string

	c.byID = make(map[string]*models.RecyclingPoint, len(c.Points))
	for i, p := range c.Points {
		if p == nil {
			problems = append(problems, fmt.Sprintf("point %d: empty entry", i))
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if strings.TrimSpace(p.Title) == "" {
			problems = append(problems, fmt.Sprintf("point %s: missing title", p.ID))
		}
		if !p.Material.Valid() {
			problems = append(problems, fmt.Sprintf("point %s: unknown material %q", p.ID, p.Material))
		}
		if !p.Location.Valid() {
			problems = append(problems, fmt.Sprintf("point %s: location (%f, %f) out of range", p.ID, p.Location.Lat, p.Location.Lon))
		}
		if _, dup := c.byID[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("point %s: duplicate id", p.ID))
		}
		c.byID[p.ID] = p
	}

	c.bySlug = make(map[string]*models.Article, len(c.Articles))
	for i, a := range c.Articles {
		if a == nil || a.Slug == "" {
			problems = append(problems, fmt.Sprintf("article %d: missing slug", i))
			continue
		}
		if _, dup := c.bySlug[a.Slug]; dup {
			problems = append(problems, fmt.Sprintf("article %s: duplicate slug", a.Slug))
		}
		c.bySlug[a.Slug] = a
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// Point looks up a point by ID
func (c *Catalog) Point(id string) (*models.RecyclingPoint, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("point %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// Article looks up an article by slug
func (c *Catalog) Article(slug string) (*models.Article, error) {
	a, ok := c.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	return a, nil
}

// ArticlesByDate returns articles newest first
func (c *Catalog) ArticlesByDate() []*models.Article {
	out := make([]*models.Article, len(c.Articles))
	copy(out, c.Articles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
