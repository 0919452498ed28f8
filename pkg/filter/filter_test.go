package filter

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []*models.RecyclingPoint {
	return []*models.RecyclingPoint{
		{ID: "1", Material: models.MaterialPlastic, Title: "Point 1"},
		{ID: "2", Material: models.MaterialMetal, Title: "Point 2"},
		{ID: "3", Material: models.MaterialPaper, Title: "Point 3"},
	}
}

func titles(points []*models.RecyclingPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.Title)
	}
	return out
}

func TestApplyEmptySelectionIsIdentity(t *testing.T) {
	points := samplePoints()
	result := Apply(points, Selection{})
	assert.Equal(t, points, result)
	assert.Equal(t, []string{"Point 1", "Point 2", "Point 3"}, titles(result))
}

func TestApplySelectedMaterials(t *testing.T) {
	points := samplePoints()
	result := Apply(points, NewSelection(models.MaterialPlastic, models.MaterialMetal))
	assert.Equal(t, []string{"Point 1", "Point 2"}, titles(result))
}

func TestApplyNoMatchingMaterial(t *testing.T) {
	result := Apply(samplePoints(), NewSelection(models.MaterialGlass))
	assert.Empty(t, result)
}

func TestApplyEmptyCollection(t *testing.T) {
	assert.Empty(t, Apply(nil, NewSelection(models.MaterialPaper)))
	assert.Empty(t, Apply(nil, Selection{}))
}

func TestToggleThenClearRestoresAll(t *testing.T) {
	points := samplePoints()
	var sel Selection

	assert.True(t, sel.Toggle(models.MaterialPaper))
	assert.Equal(t, []string{"Point 3"}, titles(Apply(points, sel)))

	sel.Clear()
	assert.True(t, sel.Empty())
	assert.Len(t, Apply(points, sel), 3)
}

func TestToggleTwiceDeselects(t *testing.T) {
	var sel Selection
	sel.Toggle(models.MaterialMetal)
	assert.False(t, sel.Toggle(models.MaterialMetal))
	assert.True(t, sel.Empty())
}

func TestApplyProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		points := make([]*models.RecyclingPoint, r.Intn(40))
		for j := range points {
			points[j] = &models.RecyclingPoint{
				ID:       fmt.Sprintf("p%d", j),
				Material: models.Materials[r.Intn(len(models.Materials))],
			}
		}

		var sel Selection
		for _, m := range models.Materials {
			if r.Intn(3) == 0 {
				sel.Select(m)
			}
		}

		result := Apply(points, sel)

		// Subset with preserved relative order
		next := 0
		for _, got := range result {
			for next < len(points) && points[next] != got {
				next++
			}
			require.Less(t, next, len(points), "result is not an ordered subsequence")
			next++
			if !sel.Empty() {
				assert.True(t, sel.Contains(got.Material))
			}
		}

		if sel.Empty() {
			assert.Equal(t, len(points), len(result))
		} else {
			expected := 0
			for _, p := range points {
				if sel.Contains(p.Material) {
					expected++
				}
			}
			assert.Equal(t, expected, len(result))
		}
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"Plastic,metal", " ", "paper"})
	require.NoError(t, err)
	assert.Equal(t, []models.Material{models.MaterialMetal, models.MaterialPaper, models.MaterialPlastic}, sel.Materials())
	assert.Equal(t, "metal,paper,plastic", sel.String())

	_, err = ParseSelection([]string{"plastic,wood"})
	assert.ErrorIs(t, err, models.ErrUnknownMaterial)

	empty, err := ParseSelection(nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.Equal(t, "all", empty.String())
}

func TestCounts(t *testing.T) {
	points := append(samplePoints(), &models.RecyclingPoint{ID: "4", Material: models.MaterialPlastic})
	counts := Counts(points)
	assert.Equal(t, 2, counts[models.MaterialPlastic])
	assert.Equal(t, 1, counts[models.MaterialMetal])
	assert.Equal(t, 0, counts[models.MaterialGlass])
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("cardboard") })
}
