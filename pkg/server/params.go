package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
)

var errBadCoordinates = errors.New("malformed coordinates")

// selectionFrom accepts both ?material=a,b and repeated ?material= params
func selectionFrom(r *http.Request) (filter.Selection, error) {
	return filter.ParseSelection(r.URL.Query()["material"])
}

func parseLocation(rawLat, rawLon string) (models.Location, error) {
	if rawLat == "" || rawLon == "" {
		return models.Location{}, fmt.Errorf("%w: lat and lon are required", errBadCoordinates)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: lat %q", errBadCoordinates, rawLat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: lon %q", errBadCoordinates, rawLon)
	}
	loc := models.Location{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return models.Location{}, fmt.Errorf("%w: %v,%v out of range", errBadCoordinates, lat, lon)
	}
	return loc, nil
}

// parseBBox reads "minLon,minLat,maxLon,maxLat", the GeoJSON bbox order
func parseBBox(raw string) (models.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return models.BoundingBox{}, fmt.Errorf("%w: bbox needs 4 values", errBadCoordinates)
	}
	bl, err := parseLocation(parts[1], parts[0])
	if err != nil {
		return models.BoundingBox{}, err
	}
	tr, err := parseLocation(parts[3], parts[2])
	if err != nil {
		return models.BoundingBox{}, err
	}
	if bl.Lat > tr.Lat || bl.Lon > tr.Lon {
		return models.BoundingBox{}, fmt.Errorf("%w: bbox corners inverted", errBadCoordinates)
	}
	return models.BoundingBox{BottomLeft: bl, TopRight: tr}, nil
}
