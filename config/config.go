// Package config loads the toml configuration shared by the iiifld
// tools.
package config

import (
	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"

	"github.com/greut/iiifld/presentation"
)

// Config holds the tunables of the decoders and the transport.
type Config struct {
	// Language is the preferred language tag for label extraction.
	Language string `toml:"language"`
	// MaxDepth caps collection and range nesting.
	MaxDepth int `toml:"maxDepth"`
	// MaxBody is the response body limit, human readable ("32M").
	MaxBody string `toml:"maxBody"`
	// Accept overrides the Accept header values sent with every
	// request; empty keeps the per-kind defaults.
	Accept []string `toml:"accept"`

	maxBodyBytes int64
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{
		Language: "en",
		MaxDepth: presentation.DefaultMaxDepth,
		MaxBody:  "32M",
	}
	size, _ := bytefmt.ToBytes(c.MaxBody)
	c.maxBodyBytes = int64(size)
	return c
}

// Load reads file over the defaults.
func Load(file string) (*Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(file, c); err != nil {
		return nil, err
	}
	size, err := bytefmt.ToBytes(c.MaxBody)
	if err != nil {
		return nil, err
	}
	c.maxBodyBytes = int64(size)
	return c, nil
}

// MaxBodyBytes is MaxBody parsed to bytes.
func (c *Config) MaxBodyBytes() int64 { return c.maxBodyBytes }

// AcceptHeaders returns the configured Accept overrides, nil when the
// defaults should apply.
func (c *Config) AcceptHeaders() []string {
	if len(c.Accept) == 0 {
		return nil
	}
	return c.Accept
}

// DecodeOptions maps the configuration onto decoder options.
func (c *Config) DecodeOptions() presentation.Options {
	return presentation.Options{MaxDepth: c.MaxDepth}
}
