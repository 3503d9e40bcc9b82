// Package logger собирает zerolog.Logger под окружение сервиса.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"task-tracker/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	// Уровнем управляет каждый логгер сам.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// New создаёт логгер для окружения env.
//
// local — человекочитаемый вывод и уровень trace,
// dev — JSON и debug, prod — JSON и info.
func New(env string, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}

	level := zerolog.InfoLevel
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		w = consoleWriter
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger(), nil
}

// WithLevel переопределяет уровень, если строка не пустая (флаг --log-level).
func WithLevel(l zerolog.Logger, raw string) (zerolog.Logger, error) {
	if raw == "" {
		return l, nil
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return l, err
	}
	return l.Level(level), nil
}
