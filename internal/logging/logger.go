// Package logging is the structured logging facade used by gsmul. Records
// are written through zerolog by default; a standard library log.Logger can
// be plugged in where plain text is preferred, such as in tests.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is implemented by every backend.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	// Error records msg together with the failure that caused it.
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is one key/value attached to a record.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{key, value} }
func Int(key string, value int) Field                { return Field{key, value} }
func Float64(key string, value float64) Field        { return Field{key, value} }
func Bool(key string, value bool) Field              { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }

// Err attaches err under the conventional "error" key.
func Err(err error) Field { return Field{"error", err} }

// ConfigureGlobal routes the package-level zerolog logger to w. The
// multipliers log their completion records there at debug level, which is
// only enabled when verbose is set.
func ConfigureGlobal(w io.Writer, verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ZerologAdapter writes JSON records through zerolog.
type ZerologAdapter struct {
	zl zerolog.Logger
}

func NewZerologAdapter(zl zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{zl: zl}
}

// NewDefaultLogger logs timestamped JSON to stderr.
func NewDefaultLogger() *ZerologAdapter {
	return NewLogger(os.Stderr, "")
}

// NewLogger logs timestamped JSON to w. A non-empty component is added to
// every record.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	ctx := zerolog.New(w).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return NewZerologAdapter(ctx.Logger())
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e.Str(f.Key, v)
		case int:
			e.Int(f.Key, v)
		case int64:
			e.Int64(f.Key, v)
		case uint64:
			e.Uint64(f.Key, v)
		case float64:
			e.Float64(f.Key, v)
		case bool:
			e.Bool(f.Key, v)
		case time.Duration:
			e.Dur(f.Key, v)
		case error:
			e.AnErr(f.Key, v)
		default:
			e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

func (z *ZerologAdapter) Info(msg string, fields ...Field)  { emit(z.zl.Info(), msg, fields) }
func (z *ZerologAdapter) Warn(msg string, fields ...Field)  { emit(z.zl.Warn(), msg, fields) }
func (z *ZerologAdapter) Debug(msg string, fields ...Field) { emit(z.zl.Debug(), msg, fields) }

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	emit(z.zl.Error().Err(err), msg, fields)
}

func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (z *ZerologAdapter) Println(args ...any) {
	z.zl.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// StdLoggerAdapter writes one text line per record, with fields rendered
// as key=value pairs after the message.
type StdLoggerAdapter struct {
	std *stdlog.Logger
}

func NewStdLoggerAdapter(std *stdlog.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{std: std}
}

func (s *StdLoggerAdapter) line(level, msg string, fields []Field) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	s.std.Println(b.String())
}

func (s *StdLoggerAdapter) Info(msg string, fields ...Field)  { s.line("[INFO]", msg, fields) }
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field)  { s.line("[WARN]", msg, fields) }
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) { s.line("[DEBUG]", msg, fields) }

func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.line("[ERROR]", fmt.Sprintf("%s: %v", msg, err), fields)
}

func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.std.Printf(format, args...) }
func (s *StdLoggerAdapter) Println(args ...any)               { s.std.Println(args...) }
