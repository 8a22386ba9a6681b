package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const DefaultTimeLayout = "2006-01-02 15:04:05"

// Options configures the console logger.
type Options struct {
	Out        io.Writer // defaults to os.Stderr
	Level      string
	TimeLayout string
	Colored    bool
	JSON       bool
}

// New builds a zerolog backed logger.Logger. Plain console output uses the
// fixed-width bracketed layout; JSON output is left untouched.
func New(opts Options) (*ZerologAdapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	layout := opts.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	if !opts.JSON {
		out = consoleWriter(out, layout, opts.Colored)
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	return NewAdapter(&zl), nil
}

func consoleWriter(out io.Writer, layout string, colored bool) zerolog.ConsoleWriter {
	paint := func(color func(string, ...any) string, format string, args ...any) string {
		if !colored {
			return fmt.Sprintf(format, args...)
		}
		return color(format, args...)
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colored,
		TimeFormat: layout,
		FormatLevel: func(i any) string {
			return formatLevel(i, paint)
		},
		FormatMessage: func(i any) string {
			msg, _ := i.(string)
			if msg == "" {
				return ">"
			}
			return paint(term.Whitef, "> %s", msg)
		},
		FormatCaller: func(i any) string {
			fname, _ := i.(string)
			if fname == "" {
				return ""
			}
			return paint(term.Yellowf, "[%s]", filepath.Base(fname))
		},
		FormatTimestamp: func(i any) string {
			return paint(term.Cyanf, "[%s]", formatTimestamp(i, layout))
		},
	}
}

type painter func(color func(string, ...any) string, format string, args ...any) string

func formatLevel(i any, paint painter) string {
	level, _ := i.(string)

	switch level {
	case zerolog.LevelTraceValue:
		return paint(term.Cyanf, "[TRC]")
	case zerolog.LevelDebugValue:
		return paint(term.Cyanf, "[DBG]")
	case zerolog.LevelInfoValue:
		return paint(term.Greenf, "[INF]")
	case zerolog.LevelWarnValue:
		return paint(term.Yellowf, "[WAR]")
	case zerolog.LevelErrorValue:
		return paint(term.Redf, "[ERR]")
	case zerolog.LevelFatalValue:
		return paint(term.Redf, "[FTL]")
	case zerolog.LevelPanicValue:
		return paint(term.Redf, "[PAN]")
	default:
		return paint(term.Whitef, "[%s]", strings.ToUpper(fallback(level, "UNK")))
	}
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return fmt.Sprint(i)
	}

	ts, err := time.ParseInLocation(zerolog.TimeFieldFormat, raw, time.Local)
	if err != nil {
		return raw
	}

	return ts.In(time.Local).Format(layout)
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
