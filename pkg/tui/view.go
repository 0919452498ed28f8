package tui

import (
	"fmt"
	"strings"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/detail"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/toggle"
)

var themeIcons = map[string]string{
	"moon.stars": "☾",
	"sun.max":    "☀",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("♻️ Repunto " + themeIcons[m.theme.Icon()]))
	b.WriteString("\n")

	switch m.screen {
	case screenHome:
		b.WriteString(m.viewHome())
	case screenMap:
		b.WriteString(m.viewMap())
	case screenBlog:
		b.WriteString(m.viewBlog())
	case screenArticle:
		b.WriteString(m.viewArticle())
	case screenDetail:
		b.WriteString(m.viewDetail())
	case screenAbout:
		b.WriteString(m.viewAbout())
	}

	if m.menuOpen {
		b.WriteString(m.viewMenu())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpFor()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewHome() string {
	var b strings.Builder

	earth := "🌍 Чистая планета"
	if m.earth == toggle.Dirty {
		earth = "🏭 Загрязнённая планета"
	}
	b.WriteString(m.styles.subtitle.Render(earth))
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("Нажмите e, чтобы увидеть разницу"))
	b.WriteString("\n")

	if facts := m.snap.Catalog.Facts; len(facts) > 0 {
		var fb strings.Builder
		fb.WriteString(m.styles.subtitle.Render("Интересные факты"))
		for _, f := range facts {
			fb.WriteString("\n• " + m.styles.text.Render(f))
		}
		b.WriteString(m.styles.box.Render(fb.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewMap() string {
	var b strings.Builder

	b.WriteString(m.styles.dim.Render(fmt.Sprintf("Центр карты: %.4f, %.4f · охват %.1f км",
		m.center.Lat, m.center.Lon, m.spanMeters/1000)))
	b.WriteString("\n")

	counts := filter.Counts(m.snap.Catalog.Points)
	b.WriteString(m.styles.subtitle.Render("Материалы"))
	b.WriteString("\n")
	for i, mat := range models.Materials {
		check := "[ ]"
		style := m.styles.text
		if m.selection.Contains(mat) {
			check = "[x]"
			style = m.styles.selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%d %s %s (%d)", i+1, check, mat.Label(), counts[mat])))
		b.WriteString("\n")
	}

	markers := m.layer.Markers()
	var mb strings.Builder
	mb.WriteString(m.styles.subtitle.Render(fmt.Sprintf("Пункты на карте: %d · фильтр: %s", len(markers), m.selection)))
	if len(markers) == 0 {
		mb.WriteString("\n" + m.styles.warn.Render("Нет пунктов для выбранных материалов"))
	}
	for i, mk := range markers {
		line := fmt.Sprintf("%s  %s  (%.4f, %.4f)", mk.Title, mk.Subtitle, mk.Location.Lat, mk.Location.Lon)
		if i == m.cursor {
			mb.WriteString("\n" + m.styles.selected.Render("▸ "+line))
		} else {
			mb.WriteString("\n  " + m.styles.text.Render(line))
		}
	}
	b.WriteString(m.styles.box.Render(mb.String()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewBlog() string {
	var b strings.Builder

	b.WriteString(m.styles.subtitle.Render("Блог"))
	b.WriteString("\n")
	if len(m.articles) == 0 {
		b.WriteString(m.styles.dim.Render("Статей пока нет"))
		b.WriteString("\n")
	}
	for i, a := range m.articles {
		line := fmt.Sprintf("%s  %s", a.Date.Format("02.01.2006"), a.Title)
		if i == m.articleCursor {
			b.WriteString(m.styles.selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + m.styles.text.Render(line))
		}
		b.WriteString("\n")
		if a.Summary != "" {
			b.WriteString("    " + m.styles.dim.Render(a.Summary) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewArticle() string {
	if m.article == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(m.article.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(m.article.Date.Format("02.01.2006")))
	body := m.styles.text.Width(max(m.width-6, 20)).Render(m.article.Content)
	b.WriteString(m.styles.box.Render(body))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDetail() string {
	if m.card == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(m.card.Point.Title))
	b.WriteString("\n")

	tabs := make([]string, 0, len(detail.Tabs))
	for _, t := range detail.Tabs {
		if m.card.Visible(t) {
			tabs = append(tabs, m.styles.tabOn.Render(t.Label()))
		} else {
			tabs = append(tabs, m.styles.tab.Render(t.Label()))
		}
	}
	b.WriteString(strings.Join(tabs, " "))

	lines := m.card.Lines()
	if len(lines) == 0 {
		lines = []string{m.styles.dim.Render("Нет данных")}
	}
	b.WriteString(m.styles.box.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewAbout() string {
	return m.styles.box.Render(
		m.styles.subtitle.Render("О нас") + "\n" +
			m.styles.text.Render("Repunto помогает найти ближайший пункт приёма вторсырья.")) + "\n"
}

func (m Model) viewMenu() string {
	var b strings.Builder
	for i, c := range m.menuItems {
		if i == m.menuCursor {
			b.WriteString(m.styles.selected.Render("▸ " + c.Label()))
		} else {
			b.WriteString("  " + m.styles.text.Render(c.Label()))
		}
		if i < len(m.menuItems)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.box.Render(b.String()) + "\n"
}
