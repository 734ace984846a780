package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Setup replaces the package logger. Production environments get the JSON encoder,
// everything else the human-readable development encoder.
func Setup(environment, level string) error {
	var config zap.Config
	if environment == "prod" || environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	logger = built.Sugar()
	return nil
}

// SetLogger swaps the package logger, mostly for tests that want to observe output.
func SetLogger(l *zap.Logger) {
	logger = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Sync() {
	_ = logger.Sync()
}

func Info(msg string, keysAndValues ...any) {
	logger.Infow(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	logger.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	logger.Errorw(msg, keysAndValues...)
}
