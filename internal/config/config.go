package config

import (
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const (
	TREEWALK_APP_NAME = "treewalk"

	GLOBALS_FILE_NAME    = "globals.yaml"
	GLOBALS_FILE_RELPATH = TREEWALK_APP_NAME + "/" + GLOBALS_FILE_NAME

	LOG_LEVEL_ENV_VARNAME = "TREEWALK_LOG_LEVEL"
	DEFAULT_LOG_LEVEL     = zerolog.WarnLevel
)

var (
	FORCE_COLOR           bool
	TRUECOLOR_COLORTERM   bool
	TERM_256COLOR_CAPABLE bool
	NO_COLOR              bool
	SHOULD_COLORIZE       bool

	LOG_LEVEL = DEFAULT_LOG_LEVEL

	// set if the value of the log level variable is not a valid level
	INVALID_LOG_LEVEL string
)

func init() {
	targetSpecificInit()
}

// GetGlobalsFilePath searches for the user's globals file ($XDG_CONFIG_HOME/treewalk/globals.yaml
// and the other XDG config directories), ok is false if there is none.
func GetGlobalsFilePath() (path string, ok bool) {
	path, err := xdg.SearchConfigFile(GLOBALS_FILE_RELPATH)
	if err != nil {
		return "", false
	}
	return path, true
}
