// Package logging builds the run logger: console output plus a per-run
// pipeline.log under the run directory.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a sugared logger writing to stdout and, when runDir is
// non-empty, to <runDir>/logs/pipeline.log.
func New(runDir string) (*zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel),
	}

	if runDir != "" {
		logDir := filepath.Join(runDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(
			filepath.Join(logDir, "pipeline.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), zapcore.InfoLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger.Sugar(), nil
}
