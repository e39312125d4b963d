package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a global logger instance
var Logger *zap.Logger

// Init initializes the global logger. Production emits JSON at info, every
// other env emits colored console output at debug. A parseable level
// ("debug", "info", "warn", "error") overrides that default.
func Init(env, level string) error {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		config = zap.NewProductionConfig()
	}
	return build(config, level)
}

// InitStderr initializes a JSON logger that never writes to stdout. The stdio
// MCP transport owns stdout for protocol frames.
func InitStderr(level string) error {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	return build(config, level)
}

func build(config zap.Config, level string) error {
	if parsed, err := zapcore.ParseLevel(level); level != "" && err == nil {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the global logger, or a development logger before Init
func Get() *zap.Logger {
	if Logger == nil {
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	return Logger
}
