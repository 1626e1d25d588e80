package hparams

import (
	"fmt"
)

// ValidatorFunc defines the signature for a function that can validate a
// finished Config. It receives the fully built *Config and should return an
// error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for assembling a configuration tree
// from defaults and a sequence of override sources.
type Builder struct {
	defaults   map[string]any
	base       *Config
	overrides  []any
	allowNew   bool
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder.
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// WithDefaults sets the nested map of default values the tree starts from.
func (b *Builder) WithDefaults(defaults map[string]any) *Builder {
	b.defaults = defaults
	return b
}

// WithConfig sets an existing tree as the starting point; it is cloned, so
// the original is never mutated by Build.
func (b *Builder) WithConfig(c *Config) *Builder {
	b.base = c
	return b
}

// WithOverride appends an override source: a nested map, a *Config, a
// key=value override string, or a .yaml path. Sources apply in the order
// they were added.
func (b *Builder) WithOverride(source any) *Builder {
	b.overrides = append(b.overrides, source)
	return b
}

// WithFile appends a YAML file path as an override source.
func (b *Builder) WithFile(path string) *Builder {
	b.overrides = append(b.overrides, path)
	return b
}

// WithAllowNewKeys permits overrides to introduce keys absent from the
// defaults. By default overrides only touch existing configuration surface.
func (b *Builder) WithAllowNewKeys(allow bool) *Builder {
	b.allowNew = allow
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Config instance with all specified options.
func (b *Builder) Build() (*Config, error) {
	if b.base != nil && b.defaults != nil {
		return nil, fmt.Errorf("WithDefaults and WithConfig are mutually exclusive")
	}

	cfg := New(b.defaults)
	if b.base != nil {
		cfg = b.base.Clone()
	}

	for _, source := range b.overrides {
		if err := cfg.Override(source, b.allowNew); err != nil {
			return nil, fmt.Errorf("failed to apply override %v: %w", source, err)
		}
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the final configuration into the provided
// target struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	if err := cfg.Scan("", target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return nil
}
