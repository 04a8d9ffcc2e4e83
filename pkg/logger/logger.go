// pkg/logger/logger.go
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Sugared = *zap.SugaredLogger

// New builds the process logger. "prod" selects the JSON production encoder,
// anything else the development console encoder. WARDEN_LOG_LEVEL overrides
// the default level (debug/info/warn/error).
func New(env string) Sugared {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if lv := os.Getenv("WARDEN_LOG_LEVEL"); lv != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(lv)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(l)
		}
	}
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return z.Sugar()
}
