package arbor

import (
	logger "github.com/xraph/go-utils/log"
	"go.uber.org/zap/zapcore"
)

// Option configures an Injector.
type Option func(*options)

// options holds injector settings.
type options struct {
	strictProviders bool
	debug           bool
	log             logger.Logger
	metadata        Metadata
}

func defaultOptions() options {
	return options{
		strictProviders: true,
		metadata:        DefaultCatalog,
	}
}

// WithStrictProviders controls whether a type dependency without a binding
// is an error (the default) or is constructed directly.
func WithStrictProviders(strict bool) Option {
	return func(o *options) {
		o.strictProviders = strict
	}
}

// WithDebug enables construction tracing at debug level.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithLogger sets the logger used for construction tracing.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMetadata sets where type metadata is read from. Defaults to DefaultCatalog.
func WithMetadata(metadata Metadata) Option {
	return func(o *options) {
		o.metadata = metadata
	}
}

// WithConfig applies a loaded Config. Unset fields keep their current value.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.StrictProviders != nil {
			o.strictProviders = *cfg.StrictProviders
		}

		if cfg.Debug != nil {
			o.debug = *cfg.Debug
		}
	}
}

// newLogger picks the tracing logger. Debug without an explicit logger
// gets a development logger so traces are visible.
func (o options) newLogger() logger.Logger {
	if o.log != nil {
		return o.log
	}

	if o.debug {
		return logger.NewDevelopmentLoggerWithLevel(zapcore.DebugLevel)
	}

	return logger.NewNoopLogger()
}
