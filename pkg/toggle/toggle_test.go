package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
	assert.Equal(t, Light, Light.Toggle().Toggle())
}

func TestThemeIcon(t *testing.T) {
	assert.Equal(t, "moon.stars", Light.Icon())
	assert.Equal(t, "sun.max", Dark.Icon())
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, Dark, ParseTheme("dark"))
	assert.Equal(t, Light, ParseTheme("light"))
	assert.Equal(t, Light, ParseTheme(""))
	assert.Equal(t, "dark", ParseTheme(Dark.String()).String())
}

func TestEarthToggle(t *testing.T) {
	assert.Equal(t, Dirty, Clean.Toggle())
	assert.Equal(t, Clean, Dirty.Toggle())
	assert.Equal(t, "clean", Clean.String())
	assert.Equal(t, "dirty", Dirty.String())
}
