// Package server exposes the catalog, filter and marker layer over a JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/annotation"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/detail"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/menu"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/metrics"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/rtree"
	"go.uber.org/zap"
)

const (
	defaultNeighbors = 5
	maxNeighbors     = 50
)

// BoxQuerier answers bounding box queries from a store other than the
// in-memory index, such as PostGIS
type BoxQuerier interface {
	QueryBox(ctx context.Context, box models.BoundingBox, sel filter.Selection) ([]*models.RecyclingPoint, error)
}

// Server holds the dependencies of the API handlers
type Server struct {
	store   *catalog.Store
	boxes   BoxQuerier
	metrics *metrics.Collector
	logger  *zap.Logger
}

// New creates a server over store. A nil collector disables instrumentation.
func New(store *catalog.Store, collector *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, metrics: collector, logger: logger}
}

// WithBoxQuerier sends /api/points?bbox= queries to q instead of the index
func (s *Server) WithBoxQuerier(q BoxQuerier) *Server {
	s.boxes = q
	return s
}

// Routes returns the API mux
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /api/points", s.listPoints)
	s.handle(mux, "GET /api/points/{id}", s.getPoint)
	s.handle(mux, "GET /api/markers", s.listMarkers)
	s.handle(mux, "GET /api/nearest", s.nearest)
	s.handle(mux, "GET /api/materials", s.listMaterials)
	s.handle(mux, "GET /api/articles", s.listArticles)
	s.handle(mux, "GET /api/articles/{slug}", s.getArticle)
	s.handle(mux, "GET /api/facts", s.listFacts)
	s.handle(mux, "GET /api/menu", s.getMenu)
	s.handle(mux, "GET /healthz", s.healthz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	route := pattern[strings.IndexByte(pattern, ' ')+1:]
	mux.Handle(pattern, s.metrics.Middleware(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setupResponse(w)
		h(w, r)
	})))
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type pointsResponse struct {
	OK     bool                     `json:"ok"`
	Filter []models.Material        `json:"filter"`
	Count  int                      `json:"count"`
	Points []*models.RecyclingPoint `json:"points"`
}

func (s *Server) listPoints(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFrom(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	snap := s.store.Snapshot()
	points := filter.Apply(snap.Catalog.Points, sel)

	if raw := r.URL.Query().Get("bbox"); raw != "" {
		box, err := parseBBox(raw)
		if err != nil {
			s.badRequest(w, err)
			return
		}
		if s.boxes != nil {
			points, err = s.boxes.QueryBox(r.Context(), box, sel)
			if err != nil {
				s.internalError(w, err)
				return
			}
		} else {
			points, err = snap.Index.QueryBox(box, sel)
			if err != nil {
				s.badRequest(w, err)
				return
			}
		}
	}

	s.writeJSON(w, http.StatusOK, pointsResponse{
		OK:     true,
		Filter: sel.Materials(),
		Count:  len(points),
		Points: nonNilPoints(points),
	})
}

type tabResponse struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

type pointResponse struct {
	OK    bool                   `json:"ok"`
	Point *models.RecyclingPoint `json:"point"`
	Tabs  []tabResponse          `json:"tabs"`
}

func (s *Server) getPoint(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Snapshot().Catalog.Point(r.PathValue("id"))
	if err != nil {
		s.notFound(w, err)
		return
	}

	card := detail.NewCard(p)
	tabs := make([]tabResponse, 0, len(detail.Tabs))
	for _, t := range detail.Tabs {
		card.Select(t)
		lines := card.Lines()
		if lines == nil {
			lines = []string{}
		}
		tabs = append(tabs, tabResponse{ID: t.String(), Label: t.Label(), Lines: lines})
	}

	s.writeJSON(w, http.StatusOK, pointResponse{OK: true, Point: p, Tabs: tabs})
}

func (s *Server) listMarkers(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFrom(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	layer := annotation.NewLayer()
	placed := annotation.Sync(layer, filter.Apply(s.store.Snapshot().Catalog.Points, sel))
	s.metrics.ObserveSync(placed)

	w.Header().Set("Content-Type", "application/geo+json")
	s.writeJSON(w, http.StatusOK, layer.FeatureCollection())
}

type nearestResponse struct {
	OK        bool             `json:"ok"`
	Center    models.Location  `json:"center"`
	Neighbors []rtree.Neighbor `json:"neighbors"`
}

func (s *Server) nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := selectionFrom(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	center, err := parseLocation(q.Get("lat"), q.Get("lon"))
	if err != nil {
		s.badRequest(w, err)
		return
	}

	k := defaultNeighbors
	if raw := q.Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 1 || k > maxNeighbors {
			s.badRequest(w, errors.New("k must be an integer between 1 and 50"))
			return
		}
	}

	neighbors := s.store.Snapshot().Index.NearestNeighbors(center, k, sel)
	if neighbors == nil {
		neighbors = []rtree.Neighbor{}
	}
	s.writeJSON(w, http.StatusOK, nearestResponse{OK: true, Center: center, Neighbors: neighbors})
}

type materialEntry struct {
	ID    models.Material `json:"id"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

func (s *Server) listMaterials(w http.ResponseWriter, r *http.Request) {
	counts := filter.Counts(s.store.Snapshot().Catalog.Points)
	entries := make([]materialEntry, 0, len(models.Materials))
	for _, m := range models.Materials {
		entries = append(entries, materialEntry{ID: m, Label: m.Label(), Count: counts[m]})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "materials": entries})
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	articles := s.store.Snapshot().Catalog.ArticlesByDate()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "articles": articles})
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Snapshot().Catalog.Article(r.PathValue("slug"))
	if err != nil {
		s.notFound(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "article": a})
}

func (s *Server) listFacts(w http.ResponseWriter, r *http.Request) {
	facts := s.store.Snapshot().Catalog.Facts
	if facts == nil {
		facts = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "facts": facts})
}

type menuEntry struct {
	Command string `json:"command"`
	Label   string `json:"label"`
	Target  string `json:"target,omitempty"`
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	screen := menu.Screen(r.URL.Query().Get("screen"))
	switch screen {
	case "":
		screen = menu.ScreenHome
	case menu.ScreenHome, menu.ScreenMap, menu.ScreenBlog:
	default:
		s.badRequest(w, errors.New("unknown screen "+strconv.Quote(string(screen))))
		return
	}

	commands := menu.ForScreen(screen)
	entries := make([]menuEntry, 0, len(commands))
	for _, c := range commands {
		e := menuEntry{Command: c.String(), Label: c.Label()}
		if target, ok := c.Target(); ok {
			e.Target = string(target)
		}
		entries = append(entries, e)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "screen": screen, "entries": entries})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"points":    snap.Index.Count(),
		"loaded_at": snap.LoadedAt,
	})
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Debug("bad request", zap.Error(err))
	s.writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: err.Error()})
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	if !errors.Is(err, catalog.ErrNotFound) {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNotFound, errorResponse{OK: false, Error: err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{OK: false, Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// setupResponse allows cors
func setupResponse(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
}

func nonNilPoints(points []*models.RecyclingPoint) []*models.RecyclingPoint {
	if points == nil {
		return []*models.RecyclingPoint{}
	}
	return points
}
