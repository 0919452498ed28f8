// Package menu defines the navigation action sheet as a closed set of commands.
package menu

import (
	"errors"
	"fmt"
)

// ErrUnhandled is returned when a command has no registered handler
var ErrUnhandled = errors.New("no handler for command")

// Command is one entry of the navigation menu
type Command int

const (
	Cancel Command = iota
	NavigateHome
	NavigateMap
	NavigateBlog
	NavigateAbout
)

var commandLabels = map[Command]string{
	Cancel:        "Отмена",
	NavigateHome:  "Главная",
	NavigateMap:   "Карта",
	NavigateBlog:  "Блог",
	NavigateAbout: "О нас",
}

var commandNames = map[Command]string{
	Cancel:        "cancel",
	NavigateHome:  "home",
	NavigateMap:   "map",
	NavigateBlog:  "blog",
	NavigateAbout: "about",
}

// Label returns the text shown on the menu entry
func (c Command) Label() string {
	return commandLabels[c]
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Screen identifies the screen that owns a menu
type Screen string

const (
	ScreenHome Screen = "home"
	ScreenMap  Screen = "map"
	ScreenBlog Screen = "blog"
)

// ForScreen lists the menu entries shown on a screen. Cancel is always last.
func ForScreen(s Screen) []Command {
	switch s {
	case ScreenMap:
		return []Command{NavigateHome, NavigateBlog, Cancel}
	case ScreenBlog:
		return []Command{NavigateHome, NavigateMap, Cancel}
	default:
		return []Command{NavigateMap, NavigateBlog, NavigateAbout, Cancel}
	}
}

// Target returns the screen a navigation command leads to
func (c Command) Target() (Screen, bool) {
	switch c {
	case NavigateHome, NavigateAbout:
		return ScreenHome, true
	case NavigateMap:
		return ScreenMap, true
	case NavigateBlog:
		return ScreenBlog, true
	default:
		return "", false
	}
}

// Handler reacts to a chosen command
type Handler func(Command) error

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[Command]Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Command]Handler)}
}

// Handle registers h for c, replacing any previous handler
func (d *Dispatcher) Handle(c Command, h Handler) {
	d.handlers[c] = h
}

// Dispatch runs the handler for c. Cancel never needs a handler.
func (d *Dispatcher) Dispatch(c Command) error {
	h, ok := d.handlers[c]
	if !ok {
		if c == Cancel {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnhandled, c)
	}
	return h(c)
}
