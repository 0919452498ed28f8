// Package tui is the terminal client: home, map, blog and point detail screens
// driven by bubbletea.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/annotation"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/catalog"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/detail"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/menu"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/toggle"
	"go.uber.org/zap"
)

type screen int

const (
	screenHome screen = iota
	screenMap
	screenBlog
	screenArticle
	screenDetail
	screenAbout
)

// ReloadMsg carries a freshly swapped catalog snapshot into the program
type ReloadMsg struct {
	Snapshot *catalog.Snapshot
}

// Options configures a new Model
type Options struct {
	Theme      toggle.Theme
	Center     models.Location
	SpanMeters float64
	Logger     *zap.Logger
}

// Model is the bubbletea model of the whole client
type Model struct {
	snap   *catalog.Snapshot
	logger *zap.Logger

	screen screen
	theme  toggle.Theme
	earth  toggle.Earth
	styles styles
	help   help.Model

	// map screen
	selection filter.Selection
	layer     *annotation.Layer
	cursor    int

	// blog screen
	articles      []*models.Article
	articleCursor int
	article       *models.Article

	card *detail.Card

	menuOpen   bool
	menuItems  []menu.Command
	menuCursor int

	center     models.Location
	spanMeters float64

	width  int
	height int
}

// New creates a model on the home screen over snap
func New(snap *catalog.Snapshot, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Center == (models.Location{}) {
		opts.Center = catalog.MapCenter
	}
	if opts.SpanMeters <= 0 {
		opts.SpanMeters = 5000
	}
	m := Model{
		snap:   snap,
		logger: opts.Logger,
		screen: screenHome,
		theme:  opts.Theme,
		styles: newStyles(opts.Theme),
		help:   help.New(),
		layer:  annotation.NewLayer(),
		width:  80,
		height: 24,

		center:     opts.Center,
		spanMeters: opts.SpanMeters,
	}
	m.articles = snap.Catalog.ArticlesByDate()
	m.sync()
	return m
}

// Watch forwards every catalog swap in store to p
func Watch(p *tea.Program, store *catalog.Store) {
	store.OnReplace(func(s *catalog.Snapshot) {
		p.Send(ReloadMsg{Snapshot: s})
	})
}

func (m Model) Init() tea.Cmd {
	return nil
}

// sync reapplies the selection and redraws the marker layer
func (m *Model) sync() {
	visible := filter.Apply(m.snap.Catalog.Points, m.selection)
	placed := annotation.Sync(m.layer, visible)
	if m.cursor >= placed {
		m.cursor = max(placed-1, 0)
	}
	m.logger.Debug("markers synced",
		zap.Stringer("filter", m.selection),
		zap.Int("markers", placed))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ReloadMsg:
		m.snap = msg.Snapshot
		m.articles = m.snap.Catalog.ArticlesByDate()
		if m.articleCursor >= len(m.articles) {
			m.articleCursor = 0
		}
		if m.card != nil {
			if p, err := m.snap.Catalog.Point(m.card.Point.ID); err == nil {
				m.card.Point = p
			} else {
				m.card = nil
				if m.screen == screenDetail {
					m.screen = screenMap
				}
			}
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.menuOpen {
			return m.updateMenu(msg)
		}
		if key.Matches(msg, keys.Theme) {
			m.theme = m.theme.Toggle()
			m.styles = newStyles(m.theme)
			return m, nil
		}
		if key.Matches(msg, keys.Menu) && m.hasMenu() {
			m.openMenu()
			return m, nil
		}

		switch m.screen {
		case screenHome:
			if key.Matches(msg, keys.Earth) {
				m.earth = m.earth.Toggle()
			}
		case screenMap:
			m.updateMap(msg)
		case screenBlog:
			m.updateBlog(msg)
		case screenArticle:
			if key.Matches(msg, keys.Back) {
				m.article = nil
				m.screen = screenBlog
			}
		case screenDetail:
			switch {
			case key.Matches(msg, keys.NextTab):
				m.card.Next()
			case key.Matches(msg, keys.Back):
				m.card = nil
				m.screen = screenMap
			}
		case screenAbout:
			if key.Matches(msg, keys.Back) {
				m.screen = screenHome
			}
		}
	}
	return m, nil
}

func (m *Model) updateMap(msg tea.KeyMsg) {
	markers := m.layer.Markers()
	switch {
	case key.Matches(msg, keys.Toggle):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(models.Materials) {
			m.selection.Toggle(models.Materials[idx])
			m.sync()
		}
	case key.Matches(msg, keys.Clear):
		m.selection.Clear()
		m.sync()
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(markers)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		if m.cursor >= len(markers) {
			return
		}
		p, err := m.snap.Catalog.Point(markers[m.cursor].PointID)
		if err != nil {
			m.logger.Warn("marker without point", zap.String("id", markers[m.cursor].PointID))
			return
		}
		m.card = detail.NewCard(p)
		m.screen = screenDetail
	}
}

func (m *Model) updateBlog(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.articleCursor > 0 {
			m.articleCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.articleCursor < len(m.articles)-1 {
			m.articleCursor++
		}
	case key.Matches(msg, keys.Open):
		if m.articleCursor < len(m.articles) {
			m.article = m.articles[m.articleCursor]
			m.screen = screenArticle
		}
	}
}

func (m Model) hasMenu() bool {
	return m.screen == screenHome || m.screen == screenMap || m.screen == screenBlog
}

func (m Model) menuScreen() menu.Screen {
	switch m.screen {
	case screenMap:
		return menu.ScreenMap
	case screenBlog:
		return menu.ScreenBlog
	default:
		return menu.ScreenHome
	}
}

func (m *Model) openMenu() {
	m.menuOpen = true
	m.menuItems = menu.ForScreen(m.menuScreen())
	m.menuCursor = 0
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.menuCursor < len(m.menuItems)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, keys.Back):
		m.dispatch(menu.Cancel)
	case key.Matches(msg, keys.Open):
		m.dispatch(m.menuItems[m.menuCursor])
	}
	return m, nil
}

// dispatch closes the menu and runs c against m
func (m *Model) dispatch(c menu.Command) {
	d := menu.NewDispatcher()
	navigate := func(c menu.Command) error {
		target, _ := c.Target()
		switch {
		case c == menu.NavigateAbout:
			m.screen = screenAbout
		case target == menu.ScreenMap:
			m.screen = screenMap
		case target == menu.ScreenBlog:
			m.screen = screenBlog
		default:
			m.screen = screenHome
		}
		return nil
	}
	for _, nav := range []menu.Command{menu.NavigateHome, menu.NavigateMap, menu.NavigateBlog, menu.NavigateAbout} {
		d.Handle(nav, navigate)
	}

	m.menuOpen = false
	if err := d.Dispatch(c); err != nil {
		m.logger.Error("menu command failed", zap.Stringer("command", c), zap.Error(err))
	}
}
