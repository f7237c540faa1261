// Package server provides the HTTP front end for hiding and recovering
// payloads over multipart uploads.
package server

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUploadBytes bounds carrier uploads when the config leaves
// max_upload_bytes unset.
const DefaultMaxUploadBytes = 32 << 20 // 32 MiB

// Config is the root configuration structure for the server.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadBytes bounds the size of a single request body.
	// Zero selects [DefaultMaxUploadBytes].
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Defaults are the embedding parameters applied when a request does
	// not override them.
	Defaults ParamsConfig `yaml:"defaults"`
}

// ParamsConfig mirrors the embedding parameters in YAML form.
// Zero fields fall back to the package defaults.
type ParamsConfig struct {
	// NLSB is the number of low bits replaced per embedding unit (1-8).
	NLSB int `yaml:"n_lsb"`

	// PairStride is the sample distance between video comparison units.
	PairStride int `yaml:"pair_stride"`

	// MaxSampleDelta bounds per-sample adjustments in the video codec.
	MaxSampleDelta int `yaml:"max_sample_delta"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if cfg.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes %d must not be negative", cfg.MaxUploadBytes))
	}
	if cfg.Defaults.NLSB < 0 || cfg.Defaults.NLSB > 8 {
		errs = append(errs, fmt.Errorf("defaults.n_lsb %d is out of range [0, 8]", cfg.Defaults.NLSB))
	}
	if cfg.Defaults.PairStride < 0 {
		errs = append(errs, fmt.Errorf("defaults.pair_stride %d must not be negative", cfg.Defaults.PairStride))
	}
	if cfg.Defaults.MaxSampleDelta < 0 {
		errs = append(errs, fmt.Errorf("defaults.max_sample_delta %d must not be negative", cfg.Defaults.MaxSampleDelta))
	}

	return errors.Join(errs...)
}
