package annotation

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []*models.RecyclingPoint {
	return []*models.RecyclingPoint{
		{ID: "1", Material: models.MaterialPlastic, Title: "Point 1", Location: models.Location{Lat: 38.5598, Lon: 68.7870}},
		{ID: "2", Material: models.MaterialMetal, Title: "Point 2", Location: models.Location{Lat: 38.5650, Lon: 68.7800}},
		{ID: "3", Material: models.MaterialPaper, Title: "Point 3", Location: models.Location{Lat: 38.5550, Lon: 68.7950}},
	}
}

// recordingView counts calls so tests can check the clear-then-add order
type recordingView struct {
	calls   []string
	markers []Marker
}

func (v *recordingView) ClearMarkers() {
	v.calls = append(v.calls, "clear")
	v.markers = nil
}

func (v *recordingView) AddMarker(m Marker) {
	v.calls = append(v.calls, "add:"+m.PointID)
	v.markers = append(v.markers, m)
}

func TestSyncClearsBeforeAdding(t *testing.T) {
	view := &recordingView{}
	placed := Sync(view, samplePoints()[:2])

	assert.Equal(t, 2, placed)
	assert.Equal(t, []string{"clear", "add:1", "add:2"}, view.calls)
}

func TestSyncMarkerMetadata(t *testing.T) {
	layer := NewLayer()
	Sync(layer, samplePoints())

	markers := layer.Markers()
	require.Len(t, markers, 3)
	assert.Equal(t, Marker{
		PointID:  "2",
		Location: models.Location{Lat: 38.5650, Lon: 68.7800},
		Title:    "Point 2",
		Subtitle: "metal",
	}, markers[1])
}

func TestSyncIsRepeatable(t *testing.T) {
	layer := NewLayer()
	points := samplePoints()

	Sync(layer, points)
	first := layer.Markers()
	Sync(layer, points)

	assert.Equal(t, first, layer.Markers())
	assert.Equal(t, 3, layer.Len())
}

func TestSyncRemovesStaleMarkers(t *testing.T) {
	layer := NewLayer()
	points := samplePoints()

	Sync(layer, filter.Apply(points, filter.Selection{}))
	assert.Equal(t, 3, layer.Len())

	Sync(layer, filter.Apply(points, filter.NewSelection(models.MaterialPaper)))
	markers := layer.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, "Point 3", markers[0].Title)

	Sync(layer, nil)
	assert.Equal(t, 0, layer.Len())
}

func TestSyncSkipsNilPoints(t *testing.T) {
	layer := NewLayer()
	placed := Sync(layer, []*models.RecyclingPoint{nil, samplePoints()[0]})
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, layer.Len())
}

func TestMarkersReturnsCopy(t *testing.T) {
	layer := NewLayer()
	Sync(layer, samplePoints())

	markers := layer.Markers()
	markers[0].Title = "changed"
	assert.Equal(t, "Point 1", layer.Markers()[0].Title)
}

func TestLayerConcurrentReaders(t *testing.T) {
	layer := NewLayer()
	points := samplePoints()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.LessOrEqual(t, len(layer.Markers()), 3)
			_ = layer.FeatureCollection()
		}()
	}
	// Single owner writes while readers run
	for i := 0; i < 20; i++ {
		Sync(layer, points)
	}
	wg.Wait()

	assert.Equal(t, 3, layer.Len())
}

func TestFeatureCollection(t *testing.T) {
	layer := NewLayer()
	Sync(layer, samplePoints()[:1])

	data, err := json.Marshal(layer.FeatureCollection())
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	assert.Equal(t, []float64{68.7870, 38.5598}, decoded.Features[0].Geometry.Coordinates)
	assert.Equal(t, "plastic", decoded.Features[0].Properties["subtitle"])
	assert.Equal(t, "1", decoded.Features[0].Properties["id"])
}

func TestEmptyFeatureCollectionEncodesArray(t *testing.T) {
	data, err := json.Marshal(NewLayer().FeatureCollection())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}
