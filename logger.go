package main

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "linky.log"

// newLogger writes JSON lines to a rotated file in dir. The console belongs
// to the chat, so diagnostics never go to stdout or stderr. The standard
// library logger is redirected too; call the returned func to undo that.
func newLogger(dir, level string) (*zap.Logger, func()) {
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, parseLevel(level))

	logger := zap.New(core, zap.AddCaller())
	restore := zap.RedirectStdLog(logger)
	return logger, restore
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
