package sdk

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	userAgent  string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient replaces the default HTTP client.
// Uploads trigger embedding of the whole document, so keep timeouts generous.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.httpClient = c
	})
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.userAgent = ua
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.logger = l
	})
}

// WithMetrics registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.metricsReg = reg
	})
}
