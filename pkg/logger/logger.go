package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
	Sink     string        `yaml:"sink" envconfig:"LOG_SINK"`
}

// NewLogger builds a JSON logger named after the service. An empty Sink writes to stdout.
func NewLogger(cfg Log, name string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.Sampling = nil
	if cfg.Sink != "" {
		zapCfg.OutputPaths = []string{cfg.Sink}
	}

	log, err := zapCfg.Build()
	if err != nil {
		log = zap.NewExample()
		log.Warn("logger build failed, fallback to example logger", zap.Error(err))
	}
	return log.Named(name)
}
