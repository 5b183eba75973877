// Package config loads the optional quill.yaml run configuration: pure
// developer-facing tracing toggles that never change language
// semantics. A yaml.Decoder with KnownFields(true) feeds a typed
// struct, and an aggregate ValidationError type collects every
// decoding problem at once.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full set of run-time knobs quill.yaml may set. Every
// field defaults to its zero value, so a missing file, or one that only
// sets some fields, is fine.
type Config struct {
	// TraceTokens writes the lexer's token stream to stderr before parsing.
	TraceTokens bool `yaml:"trace_tokens"`
	// TraceAST logs the number of parsed top-level statements to stderr
	// before evaluation; the tree itself is not dumped.
	TraceAST bool `yaml:"trace_ast"`
	// Color is decoded and validated, but no output path reads it:
	// diagnostics are always written uncolored.
	Color bool `yaml:"color"`
}

// Default returns the zero-value configuration: no tracing, no color.
func Default() Config {
	return Config{}
}

// ValidationError aggregates every problem found while decoding a
// config file, so a user sees all of them at once instead of one at a
// time across repeated runs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads and decodes the YAML config at path. A missing file is not
// an error — it returns the default configuration — since quill.yaml is
// always optional.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ValidationError{Problems: []string{err.Error()}}
	}
	return cfg, nil
}
