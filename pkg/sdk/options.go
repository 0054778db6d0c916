package filtering

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Layout selects how records are stored.
type Layout string

const (
	// LayoutJSON stores each record as one RedisJSON document (default).
	LayoutJSON Layout = "json"
	// LayoutHash stores each record as a hash with one field per filter key.
	LayoutHash Layout = "hash"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string
	db       int

	keyPrefix      string
	layout         Layout
	dotReplacement string
	ensureIndex    bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL user for AUTH.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix namespaces every key. Default: "filtering:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLayout selects the storage layout. Default: LayoutJSON.
func WithLayout(l Layout) Option {
	return optionFunc(func(c *clientConfig) {
		c.layout = l
	})
}

// WithDotReplacement sets the string stored in place of "." inside filter
// keys. It must not contain ".", letters, digits or "_". Default: "．" (U+FF0E).
func WithDotReplacement(s string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dotReplacement = s
	})
}

// WithIndex makes New create the FT index over filter records.
func WithIndex() Option {
	return optionFunc(func(c *clientConfig) {
		c.ensureIndex = true
	})
}

// WithLogger enables structured logging for client operations and
// discovery diagnostics. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// plus discovery and store metrics on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
