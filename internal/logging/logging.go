package logging

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. env selects the base profile: "prod" uses
// zap's production config (JSON, sampling), anything else the development
// one. Env vars LOG_LEVEL (debug|info|warn|error) and LOG_JSON (true|false)
// override the profile.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true

	switch os.Getenv("LOG_JSON") {
	case "true":
		cfg.Encoding = "json"
	case "false":
		cfg.Encoding = "console"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if lvl, err := zapcore.ParseLevel(v); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	// Anything third-party code writes through the std log package lands in
	// the same sink at debug level.
	if _, err := zap.RedirectStdLogAt(logger, zap.DebugLevel); err != nil {
		return nil, errors.Wrap(err, "redirect std log")
	}
	return logger, nil
}
