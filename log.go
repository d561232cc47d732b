package wikiquiz

import (
	"strings"

	"go.uber.org/zap"
)

var (
	// Global verbose flag
	verboseMode bool
	logger      = zap.NewNop().Sugar()
)

// NewLogger builds a sugared zap logger. "prod" and "production" select the
// JSON production config, anything else the console development config.
func NewLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if verboseMode {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the package logger.
func Logger() *zap.SugaredLogger {
	return logger
}

// SetVerbose sets the global verbose mode
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// VerboseLog logs only when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		logger.Debugf(format, v...)
	}
}
