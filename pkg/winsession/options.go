package winsession

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger       Logger
	host         Host
	registerer   prometheus.Registerer
	eventHandler EventHandler
	plugins      []Plugin
	settings     *Settings
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHost sets the window host. If not provided, a headless host is used.
func WithHost(host Host) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithMetricsRegisterer registers the session's metrics with reg.
// If not provided, metrics go to a private registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithEventHandler sets a handler for session events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the session starts.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithSettings sets the initial window settings instead of reading them
// from Config.SettingsPath.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}
