// Package logger wraps zerolog with a small key/value API shared by the
// CLI and the GUI. The GUI adds its log panel as an extra output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance wrapper. The pointer never changes;
// Setup and AddOutput swap the logger behind it.
var Log = &Logger{}

type Logger struct {
	z atomic.Pointer[zerolog.Logger]
}

var (
	mu      sync.Mutex
	level   = zerolog.InfoLevel
	format  = "console"
	extra   []io.Writer
	console io.Writer = os.Stderr
)

func init() {
	rebuild()
}

// Setup configures the global logger. Level is one of debug, info, warn,
// error; format is "console" or "json".
func Setup(lvl string, fmtName string) {
	mu.Lock()
	defer mu.Unlock()

	level = ParseLevel(lvl)
	format = strings.ToLower(fmtName)
	rebuild()
}

// AddOutput sends a plain-text copy of every log line to w.
func AddOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	extra = append(extra, w)
	rebuild()
}

// SetOutput replaces the primary output and drops extra outputs. Tests use
// it to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	console = w
	extra = nil
	rebuild()
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToUpper(lvl) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// rebuild must be called with mu held.
func rebuild() {
	var primary io.Writer
	if format == "json" {
		primary = console
	} else {
		primary = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{primary}
	for _, w := range extra {
		writers = append(writers, zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"})
	}

	var out io.Writer = primary
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	z := zerolog.New(out).Level(level).With().Timestamp().Logger()
	Log.z.Store(&z)
}

// Info logs at Info level with variadic key-value pairs
func (l *Logger) Info(msg string, args ...interface{}) {
	e := l.z.Load().Info()
	addFields(e, args...)
	e.Msg(msg)
}

// Debug logs at Debug level with variadic key-value pairs
func (l *Logger) Debug(msg string, args ...interface{}) {
	e := l.z.Load().Debug()
	addFields(e, args...)
	e.Msg(msg)
}

// Warn logs at Warn level with variadic key-value pairs
func (l *Logger) Warn(msg string, args ...interface{}) {
	e := l.z.Load().Warn()
	addFields(e, args...)
	e.Msg(msg)
}

// Error logs at Error level with variadic key-value pairs
func (l *Logger) Error(msg string, args ...interface{}) {
	e := l.z.Load().Error()
	addFields(e, args...)
	e.Msg(msg)
}

// addFields adds variadic key-value pairs to the event
func addFields(e *zerolog.Event, args ...interface{}) {
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			key, ok := args[i].(string)
			if !ok {
				key = fmt.Sprintf("%v", args[i])
			}
			if err, ok := args[i+1].(error); ok {
				e.AnErr(key, err)
				continue
			}
			e.Interface(key, args[i+1])
		}
	}
}
