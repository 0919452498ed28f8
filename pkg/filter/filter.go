// Package filter selects recycling points by material type.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
)

// Selection is the set of materials a user has picked. The zero value is an
// empty selection, which means no filter is applied.
type Selection struct {
	set map[models.Material]struct{}
}

// NewSelection creates a selection holding the given materials
func NewSelection(materials ...models.Material) Selection {
	s := Selection{}
	for _, m := range materials {
		s.Select(m)
	}
	return s
}

// ParseSelection builds a selection from raw tokens. Each token may itself be a
// comma-separated list; blank tokens are ignored.
func ParseSelection(raw []string) (Selection, error) {
	s := Selection{}
	for _, item := range raw {
		for _, token := range strings.Split(item, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			m, err := models.ParseMaterial(token)
			if err != nil {
				return Selection{}, err
			}
			s.Select(m)
		}
	}
	return s, nil
}

// Select adds m to the selection
func (s *Selection) Select(m models.Material) {
	if s.set == nil {
		s.set = make(map[models.Material]struct{})
	}
	s.set[m] = struct{}{}
}

// Deselect removes m from the selection
func (s *Selection) Deselect(m models.Material) {
	delete(s.set, m)
}

// Toggle flips membership of m and reports whether it is now selected
func (s *Selection) Toggle(m models.Material) bool {
	if s.Contains(m) {
		s.Deselect(m)
		return false
	}
	s.Select(m)
	return true
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.set = nil
}

// Contains reports whether m is selected
func (s Selection) Contains(m models.Material) bool {
	_, ok := s.set[m]
	return ok
}

// Empty reports whether no material is selected
func (s Selection) Empty() bool {
	return len(s.set) == 0
}

// Len returns the number of selected materials
func (s Selection) Len() int {
	return len(s.set)
}

// Materials returns the selected materials in sorted order
func (s Selection) Materials() []models.Material {
	out := make([]models.Material, 0, len(s.set))
	for m := range s.set {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Selection) String() string {
	if s.Empty() {
		return "all"
	}
	parts := make([]string, 0, len(s.set))
	for _, m := range s.Materials() {
		parts = append(parts, string(m))
	}
	return strings.Join(parts, ",")
}

// Apply returns the points whose material is selected, in their original order.
// An empty selection returns points unchanged.
func Apply(points []*models.RecyclingPoint, selected Selection) []*models.RecyclingPoint {
	if selected.Empty() {
		return points
	}

	out := make([]*models.RecyclingPoint, 0, len(points))
	for _, p := range points {
		if p != nil && selected.Contains(p.Material) {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns how many points carry each material
func Counts(points []*models.RecyclingPoint) map[models.Material]int {
	counts := make(map[models.Material]int, len(models.Materials))
	for _, p := range points {
		if p != nil {
			counts[p.Material]++
		}
	}
	return counts
}

// MustParse is ParseSelection for fixed inputs known to be valid
func MustParse(raw ...string) Selection {
	s, err := ParseSelection(raw)
	if err != nil {
		panic(fmt.Sprintf("filter: %v", err))
	}
	return s
}
