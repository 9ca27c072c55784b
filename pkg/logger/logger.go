package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log = zerolog.New(io.Discard)
	mu  sync.RWMutex
)

type LogLevel string

const (
	LogLevelDebug    LogLevel = "debug"
	LogLevelInfo     LogLevel = "info"
	LogLevelWarn     LogLevel = "warn"
	LogLevelError    LogLevel = "error"
	LogLevelDisabled LogLevel = "disabled"
)

type LogMode string

const (
	LogModeDebug  LogMode = "debug"
	LogModePretty LogMode = "pretty"
	LogModeInfo   LogMode = "info"
	LogModeProd   LogMode = "prod"
	LogModeTest   LogMode = "test"
)

// ParseMode maps a --log flag value onto a mode, falling back to pretty.
func ParseMode(s string) LogMode {
	switch m := LogMode(s); m {
	case LogModeDebug, LogModePretty, LogModeInfo, LogModeProd, LogModeTest:
		return m
	default:
		return LogModePretty
	}
}

type Config struct {
	Level         LogLevel
	Pretty        bool
	TimeFormat    string
	CallerEnabled bool
	NoColor       bool
	Output        io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:         LogLevelInfo,
		TimeFormat:    time.RFC3339,
		CallerEnabled: true,
	}
}

func ConfigForMode(mode LogMode) Config {
	cfg := DefaultConfig()
	switch mode {
	case LogModeDebug:
		cfg.Level = LogLevelDebug
		cfg.Pretty = true
	case LogModePretty:
		cfg.Pretty = true
	case LogModeInfo:
	case LogModeProd:
		cfg.TimeFormat = time.RFC3339Nano
		cfg.CallerEnabled = false
		cfg.NoColor = true
	case LogModeTest:
		cfg.Level = LogLevelError
		cfg.CallerEnabled = false
		cfg.NoColor = true
	}
	return cfg
}

func InitWithMode(mode LogMode) {
	Init(ConfigForMode(mode))
}

func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	if cfg.Level == LogLevelDisabled {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		log = zerolog.New(io.Discard)
		zerolog.DefaultContextLogger = &log
		return
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: cfg.TimeFormat,
			NoColor:    cfg.NoColor,
			FormatFieldValue: func(i interface{}) string {
				if i == nil {
					return ""
				}
				return fmt.Sprint(i)
			},
			PartsExclude: []string{"user_agent", "remote_addr"},
		}
	}

	switch cfg.Level {
	case LogLevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case LogLevelWarn:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case LogLevelError:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	logCtx := zerolog.New(output).With().Timestamp()
	if cfg.CallerEnabled {
		logCtx = logCtx.Caller()
	}

	log = logCtx.Logger()
	zerolog.DefaultContextLogger = &log
}

func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func WithComponent(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With().Str("component", component).Logger()
}

func WithRequestID(requestID string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With().Str("request_id", requestID).Logger()
}

func Error(component string, err error, msg string, fields ...map[string]interface{}) {
	l := WithComponent(component)
	withFields(l.Error().Err(err), fields).Msg(msg)
}

func Info(component string, msg string, fields ...map[string]interface{}) {
	l := WithComponent(component)
	withFields(l.Info(), fields).Msg(msg)
}

func Debug(component string, msg string, fields ...map[string]interface{}) {
	l := WithComponent(component)
	withFields(l.Debug(), fields).Msg(msg)
}

func Warn(component string, msg string, fields ...map[string]interface{}) {
	l := WithComponent(component)
	withFields(l.Warn(), fields).Msg(msg)
}

func withFields(event *zerolog.Event, fields []map[string]interface{}) *zerolog.Event {
	if len(fields) > 0 {
		event = event.Fields(fields[0])
	}
	return event
}
