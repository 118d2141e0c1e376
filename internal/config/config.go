// Package config provides application configuration loading and path
// management for conftree.
//
// Configuration is loaded from multiple sources in priority order:
//
//  1. Global config (~/.config/conftree/conftree.json or .jsonc)
//  2. Project config (conftree.json/.jsonc in the working directory)
//  3. Environment variables (CONFTREE_*)
//
// Files may be JSON or JSONC; comments and trailing commas are stripped
// with tidwall/jsonc before parsing.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/jsonc"
)

// DefaultSchemaSuffix is appended to a config file's basename when
// discovering its companion schema document.
const DefaultSchemaSuffix = "_Schema"

// DefaultIndent is the JSON output indent width.
const DefaultIndent = 2

// Config holds the knobs the editor core depends on.
type Config struct {
	// SchemaSuffix names the companion schema file:
	// <basename><suffix><ext> next to the config file.
	SchemaSuffix string `json:"schemaSuffix,omitempty"`

	// SchemaDirs lists extra directories searched for schema files, in
	// order, after the config file's own directory.
	SchemaDirs []string `json:"schemaDirs,omitempty"`

	// Indent is the JSON output indent width. Values below zero are
	// clamped to zero.
	Indent *int `json:"indent,omitempty"`
}

// SuffixOrDefault returns the configured schema suffix or the default.
func (c *Config) SuffixOrDefault() string {
	if c.SchemaSuffix == "" {
		return DefaultSchemaSuffix
	}
	return c.SchemaSuffix
}

// IndentOrDefault returns the configured indent clamped to >= 0, or the
// default.
func (c *Config) IndentOrDefault() int {
	if c.Indent == nil {
		return DefaultIndent
	}
	if *c.Indent < 0 {
		return 0
	}
	return *c.Indent
}

// Load reads configuration for the given working directory.
func Load(directory string) (*Config, error) {
	cfg := &Config{}

	loaded := make(map[string]bool)
	loadOnce := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[abs] {
			return
		}
		if loadFile(path, cfg) == nil {
			loaded[abs] = true
		}
	}

	globalDir := GetPaths().Config
	loadOnce(filepath.Join(globalDir, "conftree.json"))
	loadOnce(filepath.Join(globalDir, "conftree.jsonc"))

	if directory != "" {
		loadOnce(filepath.Join(directory, "conftree.json"))
		loadOnce(filepath.Join(directory, "conftree.jsonc"))
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadFile merges a single config file into cfg. Missing files are
// skipped silently.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data = jsonc.ToJSON(data)

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	if fileCfg.SchemaSuffix != "" {
		cfg.SchemaSuffix = fileCfg.SchemaSuffix
	}
	if len(fileCfg.SchemaDirs) > 0 {
		cfg.SchemaDirs = fileCfg.SchemaDirs
	}
	if fileCfg.Indent != nil {
		cfg.Indent = fileCfg.Indent
	}
	return nil
}

// applyEnvOverrides applies CONFTREE_* environment variables, the highest
// priority source.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONFTREE_SCHEMA_SUFFIX"); v != "" {
		cfg.SchemaSuffix = v
	}
	if v := os.Getenv("CONFTREE_SCHEMA_DIRS"); v != "" {
		cfg.SchemaDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("CONFTREE_INDENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indent = &n
		}
	}
}
