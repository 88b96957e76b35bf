package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/gridsnap/internal/grid"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> file position
	File    string            // empty when no file was found
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// rawConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type rawConfig struct {
	Display             *string           `yaml:"display"`
	Screen              *Screen           `yaml:"screen"`
	BorderOffset        *int              `yaml:"border_offset"`
	TaskbarHeight       *int              `yaml:"taskbar_height"`
	StyleRefreshDelayMS *int              `yaml:"style_refresh_delay_ms"`
	LogLevel            *string           `yaml:"log_level"`
	Bindings            map[string]string `yaml:"bindings"`
	TopMostHotkey       *string           `yaml:"topmost_hotkey"`
}

func (r rawConfig) apply(cfg *Config) {
	if r.Display != nil {
		cfg.Display = *r.Display
	}
	if r.Screen != nil {
		cfg.Screen = *r.Screen
	}
	if r.BorderOffset != nil {
		cfg.BorderOffset = *r.BorderOffset
	}
	if r.TaskbarHeight != nil {
		cfg.TaskbarHeight = *r.TaskbarHeight
	}
	if r.StyleRefreshDelayMS != nil {
		cfg.StyleRefreshDelayMS = *r.StyleRefreshDelayMS
	}
	if r.LogLevel != nil {
		cfg.LogLevel = *r.LogLevel
	}
	for name, seq := range r.Bindings {
		cfg.Bindings[bindingKey(name)] = seq
	}
	if r.TopMostHotkey != nil {
		cfg.TopMostHotkey = *r.TopMostHotkey
	}
}

// bindingKey returns the canonical cell name for a binding key so aliases
// such as "TopLeft" replace the default "top-left" entry. Unknown names are
// kept as written for Validate to report.
func bindingKey(name string) string {
	cell, err := grid.ParseCell(name)
	if err != nil {
		return name
	}
	return cell.String()
}

// checkBindingAliases rejects a file that binds the same cell twice under
// different spellings.
func (r rawConfig) checkBindingAliases() error {
	seen := make(map[string]string, len(r.Bindings))
	for _, name := range sortedKeys(r.Bindings) {
		key := bindingKey(name)
		if other, dup := seen[key]; dup {
			return &ValidationError{Path: "bindings." + name, Err: fmt.Errorf("cell %s is already bound by %q", key, other)}
		}
		seen[key] = name
	}
	return nil
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gridsnap", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath layers the file at path over the defaults. A missing file
// yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	sources := map[string]Source{}
	loadedFile := ""

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read: %w", path, err)
		}

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
		}

		var raw rawConfig
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sources = collectSources(&doc, path)
		if err := raw.checkBindingAliases(); err != nil {
			return nil, attachSourceContext(err, sources)
		}
		raw.apply(cfg)
		for name := range raw.Bindings {
			if key := bindingKey(name); key != name {
				if src, ok := sources["bindings."+name]; ok {
					sources["bindings."+key] = src
				}
			}
		}
		loadedFile = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		File:    loadedFile,
	}, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		valNode := node.Content[i+1]
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out[path] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   valNode.Line,
			Column: valNode.Column,
		}
		collectSourcesRec(valNode, file, path, out)
	}
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
