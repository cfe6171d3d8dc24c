package core

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	SOURCE_LOG_FIELD_NAME       = "src"
	EXECUTION_ID_LOG_FIELD_NAME = "exec"

	CORE_LOG_SRC = "core"
)

func init() {
	zerolog.DurationFieldInteger = false
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.MessageFieldName = "msg"
	zerolog.LevelFieldName = "lvl"
	zerolog.TimestampFieldName = "tm"
}

func ChildLoggerForSource(logger zerolog.Logger, src string) zerolog.Logger {
	return logger.With().Str(SOURCE_LOG_FIELD_NAME, src).Logger()
}

func (ctx *Context) logSpecialization(node Node, from, to Strategy) {
	event := ctx.logger.Debug()
	if !event.Enabled() {
		return
	}
	event.
		Str("node", node.Kind()).
		Stringer("from", from).
		Stringer("to", to).
		Str("pos", node.Base().Position.String()).
		Msg("node specialized")
}
