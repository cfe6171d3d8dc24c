package config

import (
	"github.com/muesli/termenv"
)

var (
	ERROR_COLOR   = termenv.ANSIBrightRed
	WARNING_COLOR = termenv.ANSIYellow
	RESULT_COLOR  = termenv.ANSIBrightCyan
	DIM_COLOR     = termenv.ANSIBrightBlack
)

// Colorize returns s with the given foreground color if SHOULD_COLORIZE is true.
func Colorize(s string, color termenv.Color) string {
	if !SHOULD_COLORIZE {
		return s
	}
	return termenv.String(s).Foreground(colorProfile().Convert(color)).String()
}

func colorProfile() termenv.Profile {
	if FORCE_COLOR {
		if TRUECOLOR_COLORTERM {
			return termenv.TrueColor
		}
		return termenv.ANSI256
	}
	profile := termenv.EnvColorProfile()
	if profile == termenv.Ascii {
		return termenv.ANSI
	}
	return profile
}
