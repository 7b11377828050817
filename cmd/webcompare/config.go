package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/webcompare"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration. Flags given on the command
// line override it.
type Config struct {
	Origin        string        `yaml:"origin"`
	Target        string        `yaml:"target"`
	Ignore        []string      `yaml:"ignore"`
	OriginNoise   []string      `yaml:"origin_noise"`
	TargetNoise   []string      `yaml:"target_noise"`
	Comparators   []string      `yaml:"comparators"`
	Concurrency   int           `yaml:"concurrency"`
	Timeout       time.Duration `yaml:"timeout"`
	Rate          float64       `yaml:"rate"`
	UserAgent     string        `yaml:"user_agent"`
	MaxURLs       int           `yaml:"max_urls"`
	Sitemap       bool          `yaml:"sitemap"`
	RespectRobots bool          `yaml:"respect_robots"`
	Bloom         uint          `yaml:"bloom"`
}

// LoadConfig reads and parses the config file at path. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, webcompare.Errorf(webcompare.EINVALID, "parse config %s: %v", path, err)
	}

	if cfg.Concurrency < 0 || cfg.Rate < 0 || cfg.MaxURLs < 0 || cfg.Timeout < 0 {
		return nil, webcompare.Errorf(webcompare.EINVALID, "config %s: numeric options must not be negative", path)
	}
	return &cfg, nil
}
