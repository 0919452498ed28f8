// Package rtree indexes recycling points in R-Trees partitioned by material,
// so a material filter decides which trees a query touches at all.
package rtree

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dhconnelly/rtreego"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
)

const (
	tolerance   = 0.0001
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
	earthRadius = 6371.0 // km
)

// spatialPoint wraps a point to implement rtreego.Spatial interface
type spatialPoint struct {
	*models.RecyclingPoint
	rect  *rtreego.Rect
	order int64
}

func (sp *spatialPoint) Bounds() *rtreego.Rect {
	return sp.rect
}

// Neighbor is a nearest-neighbor hit with its distance from the query point
type Neighbor struct {
	Point      *models.RecyclingPoint `json:"point"`
	DistanceKm float64                `json:"distance_km"`
}

// GeoIndex is a thread-safe index with one R-Tree per material
type GeoIndex struct {
	partitions map[models.Material]*rtreego.Rtree
	mu         sync.RWMutex
	itemCount  atomic.Int64
	nextOrder  int64
}

// NewGeoIndex creates an index with an empty partition for every material
func NewGeoIndex() *GeoIndex {
	g := &GeoIndex{}
	g.reset()
	return g
}

func (g *GeoIndex) reset() {
	g.partitions = make(map[models.Material]*rtreego.Rtree, len(models.Materials))
	for _, m := range models.Materials {
		g.partitions[m] = rtreego.NewTree(dimensions, minChildren, maxChildren)
	}
	g.itemCount.Store(0)
	g.nextOrder = 0
}

// IndexPoints adds points to their material partitions. Nil points are skipped.
// Query results keep the order points were indexed in.
func (g *GeoIndex) IndexPoints(points []*models.RecyclingPoint) error {
	if len(points) == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	grouped := make(map[models.Material][]*spatialPoint)
	order := g.nextOrder
	for _, point := range points {
		if point == nil {
			continue
		}
		if _, ok := g.partitions[point.Material]; !ok {
			return fmt.Errorf("failed to index point %s: %w: %q", point.ID, models.ErrUnknownMaterial, point.Material)
		}
		if !point.Location.Valid() {
			return fmt.Errorf("failed to index point %s: invalid location (%f, %f)",
				point.ID, point.Location.Lat, point.Location.Lon)
		}

		p := rtreego.Point{point.Location.Lat, point.Location.Lon}
		grouped[point.Material] = append(grouped[point.Material], &spatialPoint{
			RecyclingPoint: point,
			rect:           p.ToRect(tolerance),
			order:          order,
		})
		order++
	}

	// Partitions are independent trees, so each is filled by its own goroutine
	var wg sync.WaitGroup
	var inserted atomic.Int64
	for material, items := range grouped {
		wg.Add(1)
		go func(tree *rtreego.Rtree, items []*spatialPoint) {
			defer wg.Done()
			for _, item := range items {
				tree.Insert(item)
			}
			inserted.Add(int64(len(items)))
		}(g.partitions[material], items)
	}
	wg.Wait()

	g.nextOrder = order
	g.itemCount.Add(inserted.Load())
	return nil
}

// QueryBox returns the selected points inside box, in indexing order.
// Edges are inside, so a box with equal corners finds the point sitting on it.
func (g *GeoIndex) QueryBox(box models.BoundingBox, sel filter.Selection) ([]*models.RecyclingPoint, error) {
	if box.BottomLeft.Lat > box.TopRight.Lat || box.BottomLeft.Lon > box.TopRight.Lon {
		return nil, fmt.Errorf("invalid bounding box: bottom left (%f, %f) is above or right of top right (%f, %f)",
			box.BottomLeft.Lat, box.BottomLeft.Lon, box.TopRight.Lat, box.TopRight.Lon)
	}
	bounds, err := rtreego.NewRectFromPoints(
		rtreego.Point{box.BottomLeft.Lat - tolerance, box.BottomLeft.Lon - tolerance},
		rtreego.Point{box.TopRight.Lat + tolerance, box.TopRight.Lon + tolerance},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid bounding box: %w", err)
	}

	return g.search([]*rtreego.Rect{bounds}, sel, func(sp *spatialPoint) bool {
		return box.Contains(sp.Location)
	}), nil
}

// QueryRadius returns the selected points within radiusKm of center, in indexing order
func (g *GeoIndex) QueryRadius(center models.Location, radiusKm float64, sel filter.Selection) ([]*models.RecyclingPoint, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("invalid radius search: radius must be positive, got %f", radiusKm)
	}
	bounds, err := radiusBounds(center, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("invalid radius search: %w", err)
	}

	return g.search(bounds, sel, func(sp *spatialPoint) bool {
		return Distance(center.Lat, center.Lon, sp.Location.Lat, sp.Location.Lon) <= radiusKm
	}), nil
}

// radiusBounds returns the rectangles covering every location within radiusKm
// of center. A degree of longitude shrinks with cos(lat), so the longitude
// half-width is the exact extent of the spherical cap; a cap that crosses the
// antimeridian is split in two and one that reaches a pole spans every longitude.
func radiusBounds(center models.Location, radiusKm float64) ([]*rtreego.Rect, error) {
	angular := radiusKm / earthRadius
	deg := angular * 180 / math.Pi

	minLat := math.Max(center.Lat-deg, -90)
	maxLat := math.Min(center.Lat+deg, 90)
	minLon, maxLon := -180.0, 180.0

	if minLat > -90 && maxLat < 90 && angular < math.Pi/2 {
		ratio := math.Sin(angular) / math.Cos(center.Lat*math.Pi/180)
		if ratio < 1 {
			dLon := math.Asin(ratio) * 180 / math.Pi
			minLon, maxLon = center.Lon-dLon, center.Lon+dLon
		}
	}

	type span struct{ lo, hi float64 }
	spans := []span{{math.Max(minLon, -180), math.Min(maxLon, 180)}}
	switch {
	case minLon < -180:
		spans = append(spans, span{minLon + 360, 180})
	case maxLon > 180:
		spans = append(spans, span{-180, maxLon - 360})
	}

	rects := make([]*rtreego.Rect, 0, len(spans))
	for _, s := range spans {
		r, err := rtreego.NewRectFromPoints(
			rtreego.Point{minLat - tolerance, s.lo - tolerance},
			rtreego.Point{maxLat + tolerance, s.hi + tolerance},
		)
		if err != nil {
			return nil, err
		}
		rects = append(rects, r)
	}
	return rects, nil
}

// search fans out over the selected partitions and merges hits by indexing order
func (g *GeoIndex) search(bounds []*rtreego.Rect, sel filter.Selection, keep func(*spatialPoint) bool) []*models.RecyclingPoint {
	g.mu.RLock()
	defer g.mu.RUnlock()

	trees := g.relevantPartitions(sel)
	resultsChan := make(chan []*spatialPoint, len(trees))

	for _, tree := range trees {
		go func(tree *rtreego.Rtree) {
			resultsChan <- searchTree(tree, bounds, keep)
		}(tree)
	}

	var merged []*spatialPoint
	for range trees {
		merged = append(merged, <-resultsChan...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].order < merged[j].order })

	points := make([]*models.RecyclingPoint, len(merged))
	for i, item := range merged {
		points[i] = item.RecyclingPoint
	}
	return points
}

// searchTree collects the kept points of tree intersecting any of bounds.
// Split rectangles never overlap, so no point is returned twice.
func searchTree(tree *rtreego.Rtree, bounds []*rtreego.Rect, keep func(*spatialPoint) bool) []*spatialPoint {
	var hits []*spatialPoint
	for _, rect := range bounds {
		for _, result := range tree.SearchIntersect(rect) {
			item, ok := result.(*spatialPoint)
			if !ok || item.RecyclingPoint == nil {
				continue
			}
			if keep(item) {
				hits = append(hits, item)
			}
		}
	}
	return hits
}

// NearestNeighbors returns up to n selected points closest to center, nearest first
func (g *GeoIndex) NearestNeighbors(center models.Location, n int, sel filter.Selection) []Neighbor {
	if n <= 0 {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	trees := g.relevantPartitions(sel)
	resultsChan := make(chan []Neighbor, len(trees))

	for _, tree := range trees {
		go func(tree *rtreego.Rtree) {
			resultsChan <- nearestInTree(tree, center, n)
		}(tree)
	}

	var all []Neighbor
	for range trees {
		all = append(all, <-resultsChan...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].DistanceKm < all[j].DistanceKm })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// nearestInTree returns up to n points of tree closest to center by great-circle
// distance. The tree ranks by planar distance in degrees, which overweights
// longitude away from the equator, so its n planar nearest only bound the
// answer: every true neighbor lies within the farthest of them, and the disc
// of that radius is searched exactly.
func nearestInTree(tree *rtreego.Rtree, center models.Location, n int) []Neighbor {
	candidates := tree.NearestNeighbors(n, rtreego.Point{center.Lat, center.Lon})

	var radiusKm float64
	found := 0
	for _, result := range candidates {
		sp, ok := result.(*spatialPoint)
		if !ok || sp == nil {
			continue
		}
		found++
		radiusKm = math.Max(radiusKm, Distance(center.Lat, center.Lon, sp.Location.Lat, sp.Location.Lon))
	}
	if found == 0 {
		return nil
	}

	// Snap a zero radius to something searchable when every candidate sits on center
	bounds, err := radiusBounds(center, math.Max(radiusKm, 1e-6))
	if err != nil {
		return nil
	}
	limit := radiusKm + 1e-9
	hits := searchTree(tree, bounds, func(sp *spatialPoint) bool {
		return Distance(center.Lat, center.Lon, sp.Location.Lat, sp.Location.Lon) <= limit
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].order < hits[j].order })

	neighbors := make([]Neighbor, 0, len(hits))
	for _, sp := range hits {
		neighbors = append(neighbors, Neighbor{
			Point:      sp.RecyclingPoint,
			DistanceKm: Distance(center.Lat, center.Lon, sp.Location.Lat, sp.Location.Lon),
		})
	}
	sort.SliceStable(neighbors, func(i, j int) bool { return neighbors[i].DistanceKm < neighbors[j].DistanceKm })
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// relevantPartitions returns the trees a selection allows; all of them when it is empty.
// Callers must hold g.mu.
func (g *GeoIndex) relevantPartitions(sel filter.Selection) []*rtreego.Rtree {
	var trees []*rtreego.Rtree
	for _, m := range models.Materials {
		if sel.Empty() || sel.Contains(m) {
			trees = append(trees, g.partitions[m])
		}
	}
	return trees
}

// Count returns the number of indexed points
func (g *GeoIndex) Count() int64 {
	return g.itemCount.Load()
}

// Clear removes all points from the index
func (g *GeoIndex) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// Distance calculates the Haversine distance between two points in kilometers
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
