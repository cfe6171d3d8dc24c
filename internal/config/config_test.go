package config

import (
	"testing"

	"github.com/inoxlang/treewalk/internal/testconfig"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorize(t *testing.T) {
	prev := SHOULD_COLORIZE
	t.Cleanup(func() {
		SHOULD_COLORIZE = prev
	})

	SHOULD_COLORIZE = false
	assert.Equal(t, "error", Colorize("error", ERROR_COLOR))

	SHOULD_COLORIZE = true
	colorized := Colorize("error", ERROR_COLOR)
	assert.Contains(t, colorized, "error")
	assert.NotEqual(t, "error", colorized)
}

func TestColorProfile(t *testing.T) {
	testconfig.AllowParallelization(t)

	assert.NotEqual(t, termenv.Ascii, colorProfile())
}
