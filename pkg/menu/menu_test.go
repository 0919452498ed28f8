package menu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForScreen(t *testing.T) {
	testCases := []struct {
		screen   Screen
		expected []Command
	}{
		{ScreenHome, []Command{NavigateMap, NavigateBlog, NavigateAbout, Cancel}},
		{ScreenMap, []Command{NavigateHome, NavigateBlog, Cancel}},
		{ScreenBlog, []Command{NavigateHome, NavigateMap, Cancel}},
		{Screen("unknown"), []Command{NavigateMap, NavigateBlog, NavigateAbout, Cancel}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.screen), func(t *testing.T) {
			assert.Equal(t, tc.expected, ForScreen(tc.screen))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Карта", NavigateMap.Label())
	assert.Equal(t, "Отмена", Cancel.Label())
	assert.Equal(t, "blog", NavigateBlog.String())
	assert.Equal(t, "command(42)", Command(42).String())
}

func TestTarget(t *testing.T) {
	screen, ok := NavigateMap.Target()
	assert.True(t, ok)
	assert.Equal(t, ScreenMap, screen)

	_, ok = Cancel.Target()
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	d := NewDispatcher()
	var visited []Command
	d.Handle(NavigateMap, func(c Command) error {
		visited = append(visited, c)
		return nil
	})
	boom := errors.New("boom")
	d.Handle(NavigateBlog, func(Command) error { return boom })

	require.NoError(t, d.Dispatch(NavigateMap))
	assert.Equal(t, []Command{NavigateMap}, visited)

	assert.ErrorIs(t, d.Dispatch(NavigateBlog), boom)
	assert.ErrorIs(t, d.Dispatch(NavigateAbout), ErrUnhandled)
	assert.NoError(t, d.Dispatch(Cancel))
}
