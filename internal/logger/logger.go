// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The host writes lifecycle and error events as JSON to
// `<dir>/linkcard.log`.  Lumberjack rotates by size, compresses old files,
// and prunes by age, so no external log-rotate job is required.  When
// Console is set (interactive TTY, or `log.console: true`) the same events
// are teed, human-readable, to stdout.
//
// Usage
// -----
//
//	log, err := logger.New(logger.FromConfig(cfg))
//	if err != nil { … }
//	defer log.Sync()
//
// New installs the logger through zap.ReplaceGlobals, so packages log via
// zap.L() and zap.S() without plumbing.
//
// Notes
// -----
// • ISO-8601 timestamps and lowercase levels.
// • Errors from zap itself go to the same file sink.
// • Oxford commas, two spaces after periods.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yanizio/linkcard/internal/config"
)

// FileName is the active log file inside Options.Dir.
const FileName = "linkcard.log"

// Options configures New.
type Options struct {
	Dir        string // "" means ./logs
	Level      string // debug, info, warn, or error; "" means info
	Console    bool
	MaxSizeMB  int
	MaxAgeDays int
}

// FromConfig maps the log section, resolving a relative Dir against the
// runtime root.  Console is forced on when stdout is a terminal.
func FromConfig(c *config.Config) Options {
	dir := c.Log.Dir
	if dir == "" {
		dir = "logs"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Paths.Root, dir)
	}
	return Options{
		Dir:        dir,
		Level:      c.Log.Level,
		Console:    c.Log.Console || RunningInTTY(),
		MaxSizeMB:  c.Log.MaxSize,
		MaxAgeDays: c.Log.MaxAge,
	}
}

// RunningInTTY reports whether stdout is a character device.
func RunningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// New builds the logger described by o and installs it globally.
func New(o Options) (*zap.Logger, error) {
	if o.Dir == "" {
		o.Dir = "logs"
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 50
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 14
	}
	level := zap.InfoLevel
	if o.Level != "" {
		if err := level.UnmarshalText([]byte(o.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", o.Level, err)
		}
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, err
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(o.Dir, FileName),
		MaxSize:    o.MaxSizeMB,
		MaxBackups: 7,
		MaxAge:     o.MaxAgeDays,
		Compress:   true,
	})

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, level),
	}
	if o.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(fileSink),
	)
	zap.ReplaceGlobals(z)

	z.Info("logger online", zap.String("level", level.String()), zap.Bool("console", o.Console))
	return z, nil
}
