// Package detail models the recycling point card with its three tabs.
package detail

import "github.com/irinazakhvatkina/RepuntoApp/pkg/models"

// Tab is one section of the detail card
type Tab int

const (
	Info Tab = iota
	Photos
	Contacts
)

// Tabs lists the tabs in display order
var Tabs = []Tab{Info, Photos, Contacts}

// Label returns the tab caption shown to users
func (t Tab) Label() string {
	switch t {
	case Photos:
		return "Фото"
	case Contacts:
		return "Контакты"
	default:
		return "Информация"
	}
}

// String returns the tab id used in API responses
func (t Tab) String() string {
	switch t {
	case Photos:
		return "photos"
	case Contacts:
		return "contacts"
	default:
		return "info"
	}
}

// Card is the detail view for a single point; exactly one tab is visible
type Card struct {
	Point *models.RecyclingPoint
	tab   Tab
}

// NewCard opens a card on the information tab
func NewCard(p *models.RecyclingPoint) *Card {
	return &Card{Point: p, tab: Info}
}

// Tab returns the visible tab
func (c *Card) Tab() Tab {
	return c.tab
}

// Select shows tab t. Out-of-range values fall back to Info.
func (c *Card) Select(t Tab) {
	if t < Info || t > Contacts {
		t = Info
	}
	c.tab = t
}

// Next cycles to the following tab
func (c *Card) Next() {
	c.tab = Tabs[(int(c.tab)+1)%len(Tabs)]
}

// Visible reports whether t is the tab currently shown
func (c *Card) Visible(t Tab) bool {
	return c.tab == t
}

// Lines returns the content rows of the visible tab
func (c *Card) Lines() []string {
	switch c.tab {
	case Photos:
		return append([]string(nil), c.Point.Photos...)
	case Contacts:
		return append([]string(nil), c.Point.Contacts...)
	default:
		return InfoLines(c.Point)
	}
}

// InfoLines renders address, material and description, skipping empty fields
func InfoLines(p *models.RecyclingPoint) []string {
	var lines []string
	if p.Address != "" {
		lines = append(lines, "📍 Адрес: "+p.Address)
	}
	if p.Material != "" {
		lines = append(lines, "♻️ Тип: "+p.Material.Label())
	}
	if p.Description != "" {
		lines = append(lines, "📝 "+p.Description)
	}
	return lines
}
