// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogama/httpcall/timeout"
	"github.com/spf13/viper"
)

// Default values applied by Config.ApplyDefaults.
const (
	DefaultTimeout         = 5 * time.Second
	DefaultDialTimeout     = 30 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
	DefaultMaxIdleConns    = 100
)

// Config describes the transport and timeout policy of a client.
type Config struct {
	// Timeout is the timeout of each raw call, covering the whole
	// exchange including reading the response body.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MethodTimeouts overrides Timeout for specific HTTP methods.
	MethodTimeouts map[string]time.Duration `yaml:"method_timeouts" mapstructure:"method_timeouts"`

	DialTimeout         time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	KeepAlive           time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
	DisableKeepAlives   bool          `yaml:"disable_keep_alives" mapstructure:"disable_keep_alives"`

	// HTTP2 enables HTTP/2 over TLS on the transport.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`
}

// ApplyDefaults fills in zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = DefaultKeepAlive
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
}

// Validate reports the first invalid field of the configuration.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("transport.timeout must not be negative (got: %s)", c.Timeout)
	}
	for method, d := range c.MethodTimeouts {
		if d <= 0 {
			return fmt.Errorf("transport.method_timeouts.%s must be positive (got: %s)", method, d)
		}
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("transport.dial_timeout must not be negative (got: %s)", c.DialTimeout)
	}
	if c.IdleConnTimeout < 0 {
		return fmt.Errorf("transport.idle_conn_timeout must not be negative (got: %s)", c.IdleConnTimeout)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("transport.max_idle_conns must not be negative (got: %d)", c.MaxIdleConns)
	}
	if c.MaxIdleConnsPerHost < 0 {
		return fmt.Errorf("transport.max_idle_conns_per_host must not be negative (got: %d)", c.MaxIdleConnsPerHost)
	}
	return nil
}

// TimeoutPolicy returns the timeout policy described by the
// configuration.
func (c *Config) TimeoutPolicy() timeout.Policy {
	if len(c.MethodTimeouts) == 0 {
		return timeout.Fixed(c.Timeout)
	}
	return timeout.ByMethod(c.Timeout, c.MethodTimeouts)
}

var configKeys = []string{
	"timeout",
	"dial_timeout",
	"keep_alive",
	"idle_conn_timeout",
	"max_idle_conns",
	"max_idle_conns_per_host",
	"disable_keep_alives",
	"http2",
}

// LoadConfig reads the "transport" section of v, applies defaults, and
// validates the result.
func LoadConfig(v *viper.Viper) (Config, error) {
	var root struct {
		Transport Config `mapstructure:"transport"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal transport config: %w", err)
	}
	return finish(root.Transport)
}

// ConfigFromEnv reads a Config from environment variables named after
// the configuration keys, upper-cased and prefixed with prefix. For
// example with prefix "HTTPCALL" the timeout is read from
// HTTPCALL_TIMEOUT.
func ConfigFromEnv(prefix string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal transport config from environment: %w", err)
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
