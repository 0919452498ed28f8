package annotation

// FeatureCollection is a GeoJSON collection of marker features
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON point feature
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry holds GeoJSON coordinates in [lon, lat] order
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FeatureCollection renders the visible markers as GeoJSON
func (l *Layer) FeatureCollection() FeatureCollection {
	markers := l.Markers()

	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(markers)),
	}
	for _, m := range markers {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{m.Location.Lon, m.Location.Lat},
			},
			Properties: map[string]interface{}{
				"id":       m.PointID,
				"title":    m.Title,
				"subtitle": m.Subtitle,
			},
		})
	}
	return fc
}
