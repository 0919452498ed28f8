package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/metrics"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	handler   http.Handler
	collector *metrics.Collector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store, err := catalog.NewStore(catalog.Default(), logger)
	require.NoError(t, err)
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return &testServer{
		handler:   New(store, collector, logger).Routes(),
		collector: collector,
	}
}

func (ts *testServer) get(t *testing.T, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") != "" && rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func ids(t *testing.T, raw interface{}) []string {
	t.Helper()
	items, ok := raw.([]interface{})
	require.True(t, ok, "expected a list, got %T", raw)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.(map[string]interface{})["id"].(string))
	}
	return out
}

func TestListPoints(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		name     string
		target   string
		expected []string
	}{
		{"no filter", "/api/points", []string{"point-1", "point-2", "point-3"}},
		{"plastic and metal", "/api/points?material=plastic,metal", []string{"point-1", "point-2"}},
		{"repeated params", "/api/points?material=paper&material=PLASTIC", []string{"point-1", "point-3"}},
		{"no match", "/api/points?material=glass", []string{}},
		{"box", "/api/points?bbox=68.7790,38.5590,68.7880,38.5660", []string{"point-1", "point-2"}},
		{"box and filter", "/api/points?bbox=68.7790,38.5590,68.7880,38.5660&material=metal", []string{"point-2"}},
		{"single location box", "/api/points?bbox=68.787,38.5598,68.787,38.5598", []string{"point-1"}},
		{"meridian line box", "/api/points?bbox=68.787,38.5,68.787,38.6", []string{"point-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := ts.get(t, tc.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, true, body["ok"])
			assert.Equal(t, tc.expected, ids(t, body["points"]))
			assert.Equal(t, float64(len(tc.expected)), body["count"])
		})
	}
}

type fakeBoxes struct {
	box    models.BoundingBox
	sel    filter.Selection
	points []*models.RecyclingPoint
	err    error
}

func (f *fakeBoxes) QueryBox(_ context.Context, box models.BoundingBox, sel filter.Selection) ([]*models.RecyclingPoint, error) {
	f.box, f.sel = box, sel
	return f.points, f.err
}

func TestListPointsBoxQuerier(t *testing.T) {
	logger := zaptest.NewLogger(t)
	store, err := catalog.NewStore(catalog.Default(), logger)
	require.NoError(t, err)

	boxes := &fakeBoxes{points: []*models.RecyclingPoint{
		{ID: "db-1", Material: models.MaterialGlass, Title: "From db", Location: models.Location{Lat: 38.56, Lon: 68.78}},
	}}
	ts := &testServer{handler: New(store, nil, logger).WithBoxQuerier(boxes).Routes()}

	rec, body := ts.get(t, "/api/points?bbox=68.7,38.5,68.8,38.6&material=glass")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"db-1"}, ids(t, body["points"]))
	assert.Equal(t, models.Location{Lat: 38.5, Lon: 68.7}, boxes.box.BottomLeft)
	assert.Equal(t, models.Location{Lat: 38.6, Lon: 68.8}, boxes.box.TopRight)
	assert.Equal(t, []models.Material{models.MaterialGlass}, boxes.sel.Materials())

	// Without a bbox the snapshot still answers
	rec, body = ts.get(t, "/api/points")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ids(t, body["points"]), len(catalog.Default().Points))

	boxes.err = errors.New("connection refused")
	rec, body = ts.get(t, "/api/points?bbox=68.7,38.5,68.8,38.6")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/points?material=wood",
		"/api/points?bbox=1,2,3",
		"/api/points?bbox=68.8,38.6,68.7,38.5",
		"/api/markers?material=cardboard",
		"/api/nearest?lat=38.5",
		"/api/nearest?lat=north&lon=68.7",
		"/api/nearest?lat=95&lon=68.7",
		"/api/nearest?lat=38.5&lon=68.7&k=0",
		"/api/nearest?lat=38.5&lon=68.7&k=many",
		"/api/menu?screen=settings",
	} {
		rec, body := ts.get(t, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, false, body["ok"], target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestGetPoint(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.get(t, "/api/points/point-2")
	require.Equal(t, http.StatusOK, rec.Code)
	point := body["point"].(map[string]interface{})
	assert.Equal(t, "Point 2", point["title"])

	tabs := body["tabs"].([]interface{})
	require.Len(t, tabs, 3)
	info := tabs[0].(map[string]interface{})
	assert.Equal(t, "info", info["id"])
	assert.Equal(t, []interface{}{
		"📍 Адрес: ул. Айни, 48",
		"♻️ Тип: Металл",
		"📝 Алюминиевые банки и металлолом.",
	}, info["lines"])
	photos := tabs[1].(map[string]interface{})
	assert.Equal(t, []interface{}{"point2_1.jpg"}, photos["lines"])

	rec, body = ts.get(t, "/api/points/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["ok"])
}

func TestListMarkers(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.get(t, "/api/markers?material=plastic,metal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "FeatureCollection", body["type"])

	features := body["features"].([]interface{})
	require.Len(t, features, 2)
	first := features[0].(map[string]interface{})
	geometry := first["geometry"].(map[string]interface{})
	assert.Equal(t, []interface{}{68.7870, 38.5598}, geometry["coordinates"])
	props := first["properties"].(map[string]interface{})
	assert.Equal(t, "Point 1", props["title"])

	_, body = ts.get(t, "/api/markers")
	assert.Len(t, body["features"], 3)

	assert.Equal(t, 5.0, testutil.ToFloat64(ts.collector.MarkersSynced))
}

func TestNearest(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.get(t, "/api/nearest?lat=38.5598&lon=68.7870&k=2")
	require.Equal(t, http.StatusOK, rec.Code)
	neighbors := body["neighbors"].([]interface{})
	require.Len(t, neighbors, 2)
	first := neighbors[0].(map[string]interface{})
	assert.Equal(t, "point-1", first["point"].(map[string]interface{})["id"])
	assert.InDelta(t, 0.0, first["distance_km"], 0.001)

	_, body = ts.get(t, "/api/nearest?lat=38.5598&lon=68.7870&material=paper")
	neighbors = body["neighbors"].([]interface{})
	require.Len(t, neighbors, 1)

	_, body = ts.get(t, "/api/nearest?lat=38.5598&lon=68.7870&material=glass")
	assert.Equal(t, []interface{}{}, body["neighbors"])
}

func TestListMaterials(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.get(t, "/api/materials")
	materials := body["materials"].([]interface{})
	require.Len(t, materials, 6)
	plastic := materials[0].(map[string]interface{})
	assert.Equal(t, "plastic", plastic["id"])
	assert.Equal(t, "Пластик", plastic["label"])
	assert.Equal(t, 1.0, plastic["count"])
	glass := materials[3].(map[string]interface{})
	assert.Equal(t, 0.0, glass["count"])
}

func TestArticlesAndFacts(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.get(t, "/api/articles")
	articles := body["articles"].([]interface{})
	require.Len(t, articles, 2)
	assert.Equal(t, "why-sort-plastic", articles[0].(map[string]interface{})["slug"])

	rec, body := ts.get(t, "/api/articles/paper-cycle")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Второй круг бумаги", body["article"].(map[string]interface{})["title"])

	rec, _ = ts.get(t, "/api/articles/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = ts.get(t, "/api/facts")
	assert.Len(t, body["facts"], 3)
}

func TestMenu(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.get(t, "/api/menu")
	assert.Equal(t, "home", body["screen"])
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 4)
	last := entries[3].(map[string]interface{})
	assert.Equal(t, "cancel", last["command"])
	assert.Equal(t, "Отмена", last["label"])
	assert.Nil(t, last["target"])

	_, body = ts.get(t, "/api/menu?screen=map")
	entries = body["entries"].([]interface{})
	require.Len(t, entries, 3)
	assert.Equal(t, "home", entries[0].(map[string]interface{})["target"])
}

func TestCORSAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 3.0, body["points"])

	ts.get(t, "/api/points/missing")
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.collector.Requests.WithLabelValues("/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.collector.Requests.WithLabelValues("/api/points/{id}", "404")))

	rec, _ = ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "repunto_http_requests_total")
}

func TestParseBBox(t *testing.T) {
	box, err := parseBBox("68.70,38.50,68.86,38.62")
	require.NoError(t, err)
	assert.Equal(t, 38.50, box.BottomLeft.Lat)
	assert.Equal(t, 68.86, box.TopRight.Lon)

	_, err = parseBBox("68.70,38.50,x,38.62")
	assert.ErrorIs(t, err, errBadCoordinates)
}
