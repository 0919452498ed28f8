// Package annotation keeps a map's marker layer in step with a filtered point list.
package annotation

import (
	"sync"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
)

// Marker is one pin on a map view
type Marker struct {
	PointID  string          `json:"point_id"`
	Location models.Location `json:"location"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
}

// MapView is a rendering surface that accepts marker operations
type MapView interface {
	ClearMarkers()
	AddMarker(m Marker)
}

// MarkerFor builds the marker shown for a point
func MarkerFor(p *models.RecyclingPoint) Marker {
	return Marker{
		PointID:  p.ID,
		Location: p.Location,
		Title:    p.Title,
		Subtitle: string(p.Material),
	}
}

// Sync removes every marker from view and adds one per point.
// It must run on whatever goroutine owns view. Returns the number of markers placed.
func Sync(view MapView, points []*models.RecyclingPoint) int {
	view.ClearMarkers()

	placed := 0
	for _, p := range points {
		if p == nil {
			continue
		}
		view.AddMarker(MarkerFor(p))
		placed++
	}
	return placed
}

// Layer is an in-memory MapView safe for concurrent readers
type Layer struct {
	mu      sync.RWMutex
	markers []Marker
}

// NewLayer creates an empty marker layer
func NewLayer() *Layer {
	return &Layer{}
}

// ClearMarkers removes every marker from the layer
func (l *Layer) ClearMarkers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = l.markers[:0]
}

// AddMarker places m on top of the existing markers
func (l *Layer) AddMarker(m Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = append(l.markers, m)
}

// Markers returns a copy of the visible markers in insertion order
func (l *Layer) Markers() []Marker {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Marker, len(l.markers))
	copy(out, l.markers)
	return out
}

// Len returns the number of visible markers
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.markers)
}
