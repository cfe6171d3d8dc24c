//go:build unix

package config

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

const (
	UNIX = true
)

func targetSpecificInit() {
	// FORCE COLOR

	if s, ok := os.LookupEnv("FORCE_COLOR"); ok {
		FORCE_COLOR = len(s) != 0 && s != "false" && s != "0"
	}

	//TERMCOLOR

	TRUECOLOR_COLORTERM = os.Getenv("COLORTERM") == "truecolor"

	//NO_COLOR

	if s, ok := os.LookupEnv("NO_COLOR"); ok {
		NO_COLOR = len(s) != 0 && s != "false" && s != "0"
	}
	//TERM

	term := os.Getenv("TERM")
	if strings.Contains(term, "256color") {
		TERM_256COLOR_CAPABLE = true
	}

	//

	SHOULD_COLORIZE = !NO_COLOR && (FORCE_COLOR || TRUECOLOR_COLORTERM || TERM_256COLOR_CAPABLE)

	if SHOULD_COLORIZE && termenv.EnvColorProfile() == termenv.Ascii && !FORCE_COLOR {
		SHOULD_COLORIZE = false
	}

	//LOG LEVEL

	if s, ok := os.LookupEnv(LOG_LEVEL_ENV_VARNAME); ok && s != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			INVALID_LOG_LEVEL = s
		} else {
			LOG_LEVEL = level
		}
	}
}
