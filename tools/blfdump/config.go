// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blfdump

import (
	"os"

	"github.com/danjacques/goblf/blf/frame"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Command-line flags that are
// set explicitly override its values.
type Config struct {
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file"`
	Prefetch    int    `yaml:"prefetch"`
	Strict      bool   `yaml:"strict"`

	Export ExportConfig `yaml:"export"`

	// Messages names frames for dump and export output.
	Messages []Message `yaml:"messages"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Compression string `yaml:"compression"`
	Level       int    `yaml:"level"`
}

// Message names the frames with a given channel and identifier. A zero
// Channel matches every channel.
type Message struct {
	Channel uint16 `yaml:"channel"`
	ID      uint32 `yaml:"id"`
	Name    string `yaml:"name"`
}

// LoadConfig loads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}
	for i, m := range cfg.Messages {
		if m.Name == "" {
			return nil, errors.Errorf("message #%d (id 0x%X) has no name", i, m.ID)
		}
	}
	return &cfg, nil
}

// Database returns the message database described by the configuration, or
// nil if it names no messages.
func (cfg *Config) Database() frame.Database {
	if len(cfg.Messages) == 0 {
		return nil
	}
	db := make(frame.MapDatabase, len(cfg.Messages))
	for _, m := range cfg.Messages {
		db[frame.Key{Channel: m.Channel, ID: m.ID}] = m.Name
	}
	return db
}
