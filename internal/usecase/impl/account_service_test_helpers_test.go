package impl

import (
	"io"
	"log/slog"
	"time"

	"fintrack/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(registerTTL, loginTTL time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:       12,
			RegisterTokenTTL: registerTTL,
			LoginTokenTTL:    loginTTL,
		},
	}
}
