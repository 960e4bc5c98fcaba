package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "growfi-backend"

// Options controls the root logger. A nil Writer means stdout.
type Options struct {
	Level  string
	Pretty bool
	Writer io.Writer
	Caller bool
}

// New builds the process logger. Every line carries a timestamp and the
// service name so lines from the API can be told apart in shared sinks.
func New(opts Options) zerolog.Logger {
	out := opts.Writer
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", serviceName)
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel maps a config string to a zerolog level. Unknown or empty
// values fall back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
