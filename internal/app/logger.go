package app

import (
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/logx"
)

// NewLogger builds the configured logging backend. slog JSON is the default.
func NewLogger(cfg *config.Config) logx.Logger {
	if cfg.Log.Backend == "logrus" {
		l := logrus.New()
		l.SetOutput(os.Stdout)
		l.SetFormatter(&logrus.JSONFormatter{})
		if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			l.SetLevel(lvl)
		}
		return logx.NewLogrusAdapter(l)
	}

	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logx.ParseLevel(cfg.Log.Level),
	}))
	return logx.NewSlogAdapter(base)
}
