// Package logging wraps a zap.SugaredLogger behind a small facade, the way
// pouchkv's domain stack borrows structured logging from the wider
// example corpus rather than hand-rolling log.Printf formatting.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a Logger. An empty Filename logs to stdout.
type Options struct {
	Level      string
	Filename   string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// Logger is a thin, explicitly-threaded facade over zap — unlike a global
// package-level logger, one Logger is constructed at startup and passed
// into the connection loop and the replica handshake so each can attach
// its own connection-scoped fields via With.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a Logger from Options.
func New(opt Options) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	var sink zapcore.WriteSyncer
	if opt.Filename == "" {
		sink = zapcore.AddSync(os.Stdout)
	} else {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opt.Filename,
			MaxSize:    opt.MaxSizeMB,
			MaxAge:     opt.MaxAgeDays,
			MaxBackups: opt.MaxBackups,
			LocalTime:  true,
		})
	}

	core := zapcore.NewCore(encoder, sink, toZapLevel(opt.Level))
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{z: z.Sugar()}
}

func toZapLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child Logger carrying the given structured fields on every
// subsequent call — used to tag log lines with a connection's remote address.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{z: l.z.With(args...)}
}

func (l *Logger) Debugf(template string, args ...any) { l.z.Debugf(template, args...) }
func (l *Logger) Infof(template string, args ...any)  { l.z.Infof(template, args...) }
func (l *Logger) Warnf(template string, args ...any)  { l.z.Warnf(template, args...) }
func (l *Logger) Errorf(template string, args ...any) { l.z.Errorf(template, args...) }

// Sync flushes any buffered log entries. Errors from Sync on a plain stdout
// sink are routine on some platforms and are intentionally ignored.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
