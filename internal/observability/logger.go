package observability

import (
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

// NewConsoleLogger builds a human-readable stderr logger tagged with app.
func NewConsoleLogger(app string, noColor, timestamp bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}
	if !timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(output).With().Str("app", app)
	if timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}
