package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
points:
  - id: p1
    title: Point 1
    material: Plastic
    location: {lat: 38.5598, lon: 68.7870}
    address: пр. Рудаки, 22
    photos: [a.jpg, b.jpg]
    contacts: ["+992 37 221-00-01"]
  - title: Point 2
    material: metal
    location: {lat: 38.5650, lon: 68.7800}
articles:
  - slug: older
    title: Older
    date: 2025-07-01
  - slug: newer
    title: Newer
    date: 2025-08-01
facts:
  - Стекло разлагается более 1000 лет.
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, c.Points, 2)
	assert.Equal(t, models.MaterialPlastic, c.Points[0].Material)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, c.Points[0].Photos)
	assert.NotEmpty(t, c.Points[1].ID, "missing ids are generated")

	p, err := c.Point(c.Points[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Point 2", p.Title)

	assert.Len(t, c.Facts, 1)

	articles := c.ArticlesByDate()
	require.Len(t, articles, 2)
	assert.Equal(t, "newer", articles[0].Slug)
	assert.Equal(t, "older", c.Articles[0].Slug, "source order is untouched")
}

func TestParseValidation(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown material", "points:\n  - {id: a, title: A, material: wood, location: {lat: 1, lon: 1}}\n"},
		{"missing material", "points:\n  - {id: a, title: A, location: {lat: 1, lon: 1}}\n"},
		{"missing title", "points:\n  - {id: a, material: paper, location: {lat: 1, lon: 1}}\n"},
		{"bad latitude", "points:\n  - {id: a, title: A, material: paper, location: {lat: 91, lon: 1}}\n"},
		{"duplicate id", "points:\n  - {id: a, title: A, material: paper, location: {lat: 1, lon: 1}}\n  - {id: a, title: B, material: metal, location: {lat: 1, lon: 1}}\n"},
		{"duplicate slug", "articles:\n  - {slug: x, title: X}\n  - {slug: x, title: Y}\n"},
		{"missing slug", "articles:\n  - {title: X}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("points: [unclosed"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCatalog)
}

func TestLookupsNotFound(t *testing.T) {
	c := Default()
	_, err := c.Point("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Article("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.Points, 3)
	assert.Equal(t, []models.Material{models.MaterialPlastic, models.MaterialMetal, models.MaterialPaper},
		[]models.Material{c.Points[0].Material, c.Points[1].Material, c.Points[2].Material})

	result := filter.Apply(c.Points, filter.NewSelection(models.MaterialPlastic, models.MaterialMetal))
	require.Len(t, result, 2)
	assert.Equal(t, "Point 1", result[0].Title)
	assert.Equal(t, "Point 2", result[1].Title)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Points, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "data", "catalog.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Points, 4)

	defaults := Default()
	for i, p := range defaults.Points {
		assert.Equal(t, p, c.Points[i], "shipped point %d matches the built-in catalog", i)
	}
	assert.Equal(t, models.MaterialBatteries, c.Points[3].Material)
	assert.NotEmpty(t, c.Points[3].ID)
	assert.Equal(t, defaults.Facts, c.Facts)
	assert.Equal(t, "why-sort-plastic", c.ArticlesByDate()[0].Slug)
}

func TestStoreReplace(t *testing.T) {
	store, err := NewStore(Default(), nil)
	require.NoError(t, err)

	first := store.Snapshot()
	assert.Equal(t, int64(3), first.Index.Count())

	var notified []*Snapshot
	store.OnReplace(func(s *Snapshot) { notified = append(notified, s) })

	next, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, store.Replace(next))

	current := store.Snapshot()
	assert.NotSame(t, first, current)
	assert.Equal(t, int64(2), current.Index.Count())
	assert.Equal(t, int64(3), first.Index.Count(), "old snapshot is left intact")
	require.Len(t, notified, 1)
	assert.Same(t, current, notified[0])
}

func TestStoreReplaceKeepsOldOnError(t *testing.T) {
	store, err := NewStore(Default(), nil)
	require.NoError(t, err)
	before := store.Snapshot()

	// Bypass validation to hand the index a point it must reject
	bad := &Catalog{Points: []*models.RecyclingPoint{{ID: "x", Material: models.MaterialPaper, Location: models.Location{Lat: 200}}}}
	assert.Error(t, store.Replace(bad))
	assert.Same(t, before, store.Snapshot())
}

func TestSnapshotLoadedAt(t *testing.T) {
	before := time.Now()
	store, err := NewStore(Default(), nil)
	require.NoError(t, err)
	assert.False(t, store.Snapshot().LoadedAt.Before(before))
}
