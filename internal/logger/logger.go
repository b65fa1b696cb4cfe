package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/artpar/hooklens/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. The returned closer releases the
// log file, if one was opened. The TUI owns the terminal, so "file" is the
// default output; "stderr" suits the scripted commands and "none" discards.
func Init(cfg config.LoggingConfig) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	switch cfg.Output {
	case "none":
		log.Logger = zerolog.Nop()
		return nopCloser{}, nil

	case "stderr":
		if cfg.Format == "text" {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		} else {
			log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		}
		return nopCloser{}, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			log.Logger = zerolog.Nop()
			return nopCloser{}, err
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			log.Logger = zerolog.Nop()
			return nopCloser{}, err
		}
		log.Logger = zerolog.New(file).With().Timestamp().Logger()
		return file, nil
	}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
