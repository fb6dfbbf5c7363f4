package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefaultConfig when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

var keyComments = map[string]string{
	"log_level":   "Minimum console level: debug, info, warning or error",
	"color":       "Colour log output when writing to a terminal",
	"install_dir": "Where `niftyregw install` puts binaries; searched after PATH",
	"locator":     "Resolved binary paths are cached for cache_ttl (0 disables)",
	"history":     "SQLite log of every tool run, shown by `niftyregw history`",
	"install":     "release_url takes the platform name in place of %s",
	"tracing":     "OpenTelemetry spans per tool run. exporter: none, file, stdout or otlp",
}

// DefaultConfigYAML renders Defaults() as commented YAML.
func DefaultConfigYAML() ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(Defaults()); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			if c, ok := keyComments[root.Content[i].Value]; ok {
				root.Content[i].HeadComment = c
			}
		}
	}

	doc := yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "niftyregw configuration\nEvery key can be overridden with NIFTYREGW_<KEY>, e.g. NIFTYREGW_TRACING_ENABLED=true",
		Content:     []*yaml.Node{&root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefaultConfig writes the default config to configPath, creating the
// parent directory. An existing file is only replaced when force is set.
func WriteDefaultConfig(configPath string, force bool) error {
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s: %w", configPath, ErrConfigExists)
		}
	}

	data, err := DefaultConfigYAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
