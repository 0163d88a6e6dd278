package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool
	NoColor      bool

	// Explicit configuration file, empty to search the default locations
	ConfigPath string

	// Common timeouts
	DefaultTimeout time.Duration

	// Progress reporting
	ProgressCallback func(message string, percent int)

	// Logger is never nil; it discards everything until SetupLogger runs.
	Logger *zap.Logger
}

// NewContext creates a new application context. The environment is read
// again on every call so later changes to NO_COLOR or BINFO_LOG_LEVEL apply.
func NewContext() *Context {
	env.Load()
	return &Context{
		Context:        context.Background(),
		OutputFormat:   "table",
		NoColor:        env.Bool("NO_COLOR"),
		DefaultTimeout: 30 * time.Second,
		Logger:         zap.NewNop(),
	}
}

// SetupLogger builds a console logger on stderr for the current verbosity.
// BINFO_LOG_LEVEL overrides the level picked from the flags.
func (c *Context) SetupLogger() error {
	level := zapcore.WarnLevel
	switch {
	case c.Quiet:
		level = zapcore.FatalLevel
	case c.Verbose:
		level = zapcore.DebugLevel
	}
	if name := env.Str("BINFO_LOG_LEVEL", ""); name != "" {
		parsed, err := zapcore.ParseLevel(name)
		if err != nil {
			return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid BINFO_LOG_LEVEL %q", name), err)
		}
		level = parsed
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	if c.NoColor {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	c.Logger = logger
	return nil
}

// WithTimeout creates a context with timeout. A zero or negative timeout
// only adds cancellation.
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	if timeout <= 0 {
		return c.WithCancel()
	}
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// CheckTimeout reports whether the work named by step may go on. A passed
// deadline becomes a TIMEOUT error.
func (c *Context) CheckTimeout(step string) error {
	err := c.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrCodeTimeout, step+" timed out", err)
	default:
		return fmt.Errorf("%s: %w", step, err)
	}
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log records a message for verbose output
func (c *Context) Log(message string, fields ...zap.Field) {
	if c.Quiet {
		return
	}
	c.Logger.Debug(message, fields...)
}

// Warn records a problem that did not stop the command
func (c *Context) Warn(message string, fields ...zap.Field) {
	c.Logger.Warn(message, fields...)
}

// Error records an error message unless quiet
func (c *Context) Error(message string, fields ...zap.Field) {
	if c.Quiet {
		return
	}
	c.Logger.Error(message, fields...)
}

// Sync flushes buffered log entries
func (c *Context) Sync() {
	_ = c.Logger.Sync()
}
