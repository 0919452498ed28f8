package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/rtree"
)

func main() {
	var (
		catalogFile = flag.String("f", "", "Catalog file path (built-in catalog when empty)")
		queryType   = flag.String("t", "nearest", "Query type: box, radius, nearest")
		materials   = flag.String("material", "", "Comma-separated materials to include")
		// Box query parameters
		minLat = flag.Float64("min-lat", 0, "Minimum latitude (box query)")
		maxLat = flag.Float64("max-lat", 0, "Maximum latitude (box query)")
		minLon = flag.Float64("min-lon", 0, "Minimum longitude (box query)")
		maxLon = flag.Float64("max-lon", 0, "Maximum longitude (box query)")
		// Radius and nearest query parameters
		centerLat = flag.Float64("lat", catalog.MapCenter.Lat, "Center latitude (radius/nearest query)")
		centerLon = flag.Float64("lon", catalog.MapCenter.Lon, "Center longitude (radius/nearest query)")
		radius    = flag.Float64("radius", 5, "Radius in km (radius query)")
		k         = flag.Int("k", 5, "Number of nearest points (nearest query)")
		// Output format
		outputJSON = flag.Bool("json", false, "Output results as JSON")
		limit      = flag.Int("limit", 100, "Maximum number of results to display")
	)
	flag.Parse()

	sel, err := filter.ParseSelection([]string{*materials})
	if err != nil {
		log.Fatalf("Invalid -material: %v", err)
	}

	c := catalog.Default()
	if *catalogFile != "" {
		if c, err = catalog.Load(*catalogFile); err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	index := rtree.NewGeoIndex()
	if err := index.IndexPoints(c.Points); err != nil {
		log.Fatalf("Failed to index catalog: %v", err)
	}
	log.Printf("Index loaded with %d points, filter: %s\n", index.Count(), sel)

	center := models.Location{Lat: *centerLat, Lon: *centerLon}
	var results []rtree.Neighbor

	switch *queryType {
	case "box":
		if *minLat == 0 && *maxLat == 0 && *minLon == 0 && *maxLon == 0 {
			log.Fatal("Box query requires -min-lat, -max-lat, -min-lon, -max-lon")
		}
		box := models.BoundingBox{
			BottomLeft: models.Location{Lat: *minLat, Lon: *minLon},
			TopRight:   models.Location{Lat: *maxLat, Lon: *maxLon},
		}
		points, err := index.QueryBox(box, sel)
		if err != nil {
			log.Fatalf("Box query failed: %v", err)
		}
		results = withoutDistance(points)
		log.Printf("Box query found %d points\n", len(results))

	case "radius":
		points, err := index.QueryRadius(center, *radius, sel)
		if err != nil {
			log.Fatalf("Radius query failed: %v", err)
		}
		results = withDistance(center, points)
		log.Printf("Radius query (%.2f km) found %d points\n", *radius, len(results))

	case "nearest":
		results = index.NearestNeighbors(center, *k, sel)
		log.Printf("Found %d nearest points\n", len(results))

	default:
		log.Fatalf("Unknown query type: %s", *queryType)
	}

	if len(results) > *limit {
		log.Printf("Showing first %d results (use -limit to see more)\n", *limit)
		results = results[:*limit]
	}

	if *outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			log.Fatalf("Failed to encode results: %v", err)
		}
		return
	}

	for i, r := range results {
		p := r.Point
		if *queryType == "box" {
			fmt.Printf("%d. %s [%s]: (%.6f, %.6f)\n",
				i+1, p.Title, p.Material, p.Location.Lat, p.Location.Lon)
			continue
		}
		fmt.Printf("%d. %s [%s]: (%.6f, %.6f) - %.2f km\n",
			i+1, p.Title, p.Material, p.Location.Lat, p.Location.Lon, r.DistanceKm)
	}
}

func withDistance(center models.Location, points []*models.RecyclingPoint) []rtree.Neighbor {
	out := make([]rtree.Neighbor, 0, len(points))
	for _, p := range points {
		out = append(out, rtree.Neighbor{
			Point:      p,
			DistanceKm: rtree.Distance(center.Lat, center.Lon, p.Location.Lat, p.Location.Lon),
		})
	}
	return out
}

func withoutDistance(points []*models.RecyclingPoint) []rtree.Neighbor {
	out := make([]rtree.Neighbor, 0, len(points))
	for _, p := range points {
		out = append(out, rtree.Neighbor{Point: p})
	}
	return out
}
