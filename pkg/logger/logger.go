package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger

// Init configures the global logger for the given environment.
// Production gets JSON output, everything else gets the console encoder.
func Init(env string) error {
	var err error

	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	return nil
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}

func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
