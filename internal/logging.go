package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the log file inside the log directory
const LogFileName = "application.log"

// NewLogger builds a logger writing JSON lines to logDir/application.log and
// warnings to stderr. debug lowers both outputs to debug level.
func NewLogger(logDir string, debug bool) (*zap.Logger, error) {
	if err := EnsureDirs(logDir); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	fileLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	consoleLevel := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		fileLevel.SetLevel(zapcore.DebugLevel)
		consoleLevel.SetLevel(zapcore.DebugLevel)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    1, // MB
		MaxBackups: 3,
		Compress:   true,
	}

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoderConfig.TimeKey = ""

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), fileLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.Lock(os.Stderr), consoleLevel),
	)

	return zap.New(core), nil
}
