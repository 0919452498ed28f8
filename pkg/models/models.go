package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownMaterial is returned when a material token is not one of the canonical types
var ErrUnknownMaterial = errors.New("unknown material type")

// Material is a canonical recycling material type
type Material string

const (
	MaterialPlastic     Material = "plastic"
	MaterialMetal       Material = "metal"
	MaterialPaper       Material = "paper"
	MaterialGlass       Material = "glass"
	MaterialBatteries   Material = "batteries"
	MaterialElectronics Material = "electronics"
)

// Materials is the full set of accepted material types, in display order
var Materials = []Material{
	MaterialPlastic,
	MaterialMetal,
	MaterialPaper,
	MaterialGlass,
	MaterialBatteries,
	MaterialElectronics,
}

var materialLabels = map[Material]string{
	MaterialPlastic:     "Пластик",
	MaterialMetal:       "Металл",
	MaterialPaper:       "Бумага",
	MaterialGlass:       "Стекло",
	MaterialBatteries:   "Батарейки",
	MaterialElectronics: "Электроника",
}

// ParseMaterial normalizes a raw token and checks it against the canonical set
func ParseMaterial(raw string) (Material, error) {
	m := Material(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := materialLabels[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMaterial, raw)
	}
	return m, nil
}

// Valid reports whether m is a canonical material type
func (m Material) Valid() bool {
	_, ok := materialLabels[m]
	return ok
}

// Label returns the human-facing name of the material
func (m Material) Label() string {
	if label, ok := materialLabels[m]; ok {
		return label
	}
	return string(m)
}

// UnmarshalText lets yaml and json decoders accept any capitalization
func (m *Material) UnmarshalText(text []byte) error {
	parsed, err := ParseMaterial(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Location represents a geographic location with latitude and longitude
type Location struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the location is within WGS84 bounds
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Location `json:"bottom_left"`
	TopRight   Location `json:"top_right"`
}

// Contains reports whether loc lies inside the box, edges included
func (b BoundingBox) Contains(loc Location) bool {
	return loc.Lat >= b.BottomLeft.Lat && loc.Lat <= b.TopRight.Lat &&
		loc.Lon >= b.BottomLeft.Lon && loc.Lon <= b.TopRight.Lon
}

// RecyclingPoint is a single drop-off location. It is not modified after load.
type RecyclingPoint struct {
	ID          string   `json:"id" yaml:"id"`
	Location    Location `json:"location" yaml:"location"`
	Material    Material `json:"material" yaml:"material"`
	Title       string   `json:"title" yaml:"title"`
	Address     string   `json:"address" yaml:"address"`
	Description string   `json:"description" yaml:"description"`
	Photos      []string `json:"photos" yaml:"photos"`
	Contacts    []string `json:"contacts" yaml:"contacts"`
}

// Article is an educational blog entry
type Article struct {
	Slug    string    `json:"slug" yaml:"slug"`
	Title   string    `json:"title" yaml:"title"`
	Image   string    `json:"image,omitempty" yaml:"image"`
	Summary string    `json:"summary" yaml:"summary"`
	Date    time.Time `json:"date" yaml:"date"`
	Content string    `json:"content" yaml:"content"`
}
