package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WINGMAN_CONFIG is set
//  3. env (prefix WINGMAN_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("WINGMAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: WINGMAN_ADDR, WINGMAN_WORKER_COUNT, ...
	// Map env keys like WINGMAN_WORKER_COUNT -> worker_count (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("WINGMAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "wingman_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.SegmentQueueSize <= 0:
		return nil, fmt.Errorf("%w: segment_queue_size must be positive", ErrInvalidConfig)
	case cfg.WorkerCount <= 0:
		return nil, fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case cfg.OracleTimeoutMS <= 0:
		return nil, fmt.Errorf("%w: oracle_timeout_ms must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
