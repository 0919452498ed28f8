package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/rtree"
)

type benchmarkResult struct {
	queryType    string
	totalQueries int
	totalTime    time.Duration
	p50, p99     time.Duration
	totalResults int64
}

type queryFunc func(r *rand.Rand) int

func main() {
	var (
		numPoints  = flag.Int("points", 100000, "Number of generated recycling points")
		numQueries = flag.Int("n", 10000, "Number of queries to run")
		workers    = flag.Int("w", runtime.NumCPU(), "Number of concurrent workers")
		queryType  = flag.String("t", "box", "Query type: box, radius, nearest")
		materials  = flag.String("material", "", "Comma-separated material filter")
		spread     = flag.Float64("spread", 0.5, "Point spread around the map center in degrees")
		boxSize    = flag.Float64("box-size", 0.05, "Box size in degrees (box queries)")
		radius     = flag.Float64("radius", 3, "Radius in km (radius queries)")
		k          = flag.Int("k", 10, "Number of nearest points (nearest queries)")
		seed       = flag.Int64("seed", 1, "Random seed")
	)
	flag.Parse()

	sel, err := filter.ParseSelection([]string{*materials})
	if err != nil {
		log.Fatalf("Invalid -material: %v", err)
	}

	points := generatePoints(*numPoints, *spread, *seed)
	index := rtree.NewGeoIndex()
	start := time.Now()
	if err := index.IndexPoints(points); err != nil {
		log.Fatalf("Failed to index points: %v", err)
	}
	log.Printf("Indexed %d points in %v\n", index.Count(), time.Since(start))

	center := catalog.MapCenter
	randomLocation := func(r *rand.Rand) models.Location {
		return models.Location{
			Lat: center.Lat + (r.Float64()*2-1)**spread,
			Lon: center.Lon + (r.Float64()*2-1)**spread,
		}
	}

	var query queryFunc
	switch *queryType {
	case "box":
		query = func(r *rand.Rand) int {
			bl := randomLocation(r)
			box := models.BoundingBox{
				BottomLeft: bl,
				TopRight:   models.Location{Lat: bl.Lat + *boxSize, Lon: bl.Lon + *boxSize},
			}
			res, err := index.QueryBox(box, sel)
			if err != nil {
				return 0
			}
			return len(res)
		}
	case "radius":
		query = func(r *rand.Rand) int {
			res, err := index.QueryRadius(randomLocation(r), *radius, sel)
			if err != nil {
				return 0
			}
			return len(res)
		}
	case "nearest":
		query = func(r *rand.Rand) int {
			return len(index.NearestNeighbors(randomLocation(r), *k, sel))
		}
	default:
		log.Fatalf("Unknown query type: %s", *queryType)
	}

	log.Printf("Running %d %s queries (filter: %s) with %d workers...\n", *numQueries, *queryType, sel, *workers)
	result := run(*queryType, query, *numQueries, *workers, *seed)

	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("Query Type: %s\n", result.queryType)
	fmt.Printf("Total Queries: %d\n", result.totalQueries)
	fmt.Printf("Total Duration: %v\n", result.totalTime)
	fmt.Printf("Queries/sec: %.0f\n", float64(result.totalQueries)/result.totalTime.Seconds())
	fmt.Printf("p50: %v  p99: %v\n", result.p50, result.p99)
	fmt.Printf("Avg Results/Query: %.1f\n", float64(result.totalResults)/float64(result.totalQueries))
}

func run(name string, query queryFunc, n, workers int, seed int64) benchmarkResult {
	if workers < 1 {
		workers = 1
	}
	durations := make([]time.Duration, n)
	var next atomic.Int64
	var totalResults atomic.Int64

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(r *rand.Rand) {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				qStart := time.Now()
				totalResults.Add(int64(query(r)))
				durations[i] = time.Since(qStart)
			}
		}(rand.New(rand.NewSource(seed + int64(w))))
	}
	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	result := benchmarkResult{
		queryType:    name,
		totalQueries: n,
		totalTime:    elapsed,
		totalResults: totalResults.Load(),
	}
	if n > 0 {
		result.p50 = durations[n/2]
		result.p99 = durations[n*99/100]
	}
	return result
}

// generatePoints scatters points of every material around the map center
func generatePoints(n int, spread float64, seed int64) []*models.RecyclingPoint {
	r := rand.New(rand.NewSource(seed))
	points := make([]*models.RecyclingPoint, n)
	for i := range points {
		m := models.Materials[r.Intn(len(models.Materials))]
		points[i] = &models.RecyclingPoint{
			ID:       fmt.Sprintf("bench-%d", i),
			Material: m,
			Title:    fmt.Sprintf("%s #%d", m.Label(), i),
			Location: models.Location{
				Lat: catalog.MapCenter.Lat + (r.Float64()*2-1)*spread,
				Lon: catalog.MapCenter.Lon + (r.Float64()*2-1)*spread,
			},
		}
	}
	return points
}
