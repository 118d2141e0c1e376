// Package discovery resolves the companion schema document for a
// configuration file: a pinned choice wins, then suffix-based lookup next
// to the file, then the configured extra search directories.
package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/conftree/conftree/internal/logging"
	"github.com/conftree/conftree/internal/schema"
)

// Discoverer finds schema documents for config files.
type Discoverer struct {
	Pins *PinStore

	// Suffix is appended to the config file's basename, e.g. "_Schema"
	// turns app.json into app_Schema.json.
	Suffix string

	// ExtraDirs are searched, in order, after the config file's own
	// directory.
	ExtraDirs []string
}

// Candidates returns the schema file paths that would be probed for
// configPath, in priority order.
func (d *Discoverer) Candidates(ctx context.Context, configPath string) []string {
	var out []string
	if d.Pins != nil {
		if pinned, ok := d.Pins.Get(ctx, configPath); ok {
			out = append(out, pinned)
		}
	}

	ext := filepath.Ext(configPath)
	base := strings.TrimSuffix(filepath.Base(configPath), ext)
	name := base + d.Suffix + ext

	out = append(out, filepath.Join(filepath.Dir(configPath), name))
	for _, dir := range d.ExtraDirs {
		out = append(out, filepath.Join(dir, name))
	}
	return out
}

// Discover probes the candidates and returns the first one that parses
// as valid JSON. Non-existence and parse failures fall through silently;
// no candidate succeeding means the document simply has no schema.
func (d *Discoverer) Discover(ctx context.Context, configPath string) *schema.ConfigSchema {
	for _, candidate := range d.Candidates(ctx, configPath) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		cs, err := schema.Load(candidate, data)
		if err != nil {
			logging.Debug().Str("schema", candidate).Err(err).Msg("schema candidate failed to parse")
			continue
		}
		return cs
	}
	return nil
}
