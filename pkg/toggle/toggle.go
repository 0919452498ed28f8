// Package toggle holds the two-state presentation switches: theme and earth illustration.
package toggle

// Theme is the light or dark appearance
type Theme int

const (
	Light Theme = iota
	Dark
)

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon is the symbol shown on the theme button: the state a tap switches to
func (t Theme) Icon() string {
	if t == Dark {
		return "sun.max"
	}
	return "moon.stars"
}

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ParseTheme maps "dark" to Dark and anything else to Light
func ParseTheme(s string) Theme {
	if s == "dark" {
		return Dark
	}
	return Light
}

// Earth is the state of the home-screen illustration
type Earth int

const (
	Clean Earth = iota
	Dirty
)

// Toggle returns the other earth state
func (e Earth) Toggle() Earth {
	if e == Dirty {
		return Clean
	}
	return Dirty
}

func (e Earth) String() string {
	if e == Dirty {
		return "dirty"
	}
	return "clean"
}
