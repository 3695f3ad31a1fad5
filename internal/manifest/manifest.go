// Package manifest parses header map manifests: files listing the maps a
// build step should generate and the entries of each.
//
// Manifests are authored as YAML (.yaml, .yml) or as JSON extended with
// comments and trailing commas (any other extension):
//
//	maps:
//	  - output: build/Foo-project.hmap
//	    entries:
//	      - key: Foo/Bar.h
//	        path: /src/foo/include/Bar.h
//	      - key: Baz.h
//	        prefix: /src/foo/private/
//	        suffix: Baz.h
//
// An entry names its value either as one path, split on the last separator,
// or as an explicit prefix/suffix pair.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tamirms/headermap"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Manifest is the top-level manifest document.
type Manifest struct {
	Maps []Map `yaml:"maps" json:"maps"`
}

// Map describes one header map file.
type Map struct {
	Output  string  `yaml:"output" json:"output"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Entry is one key of a map. Exactly one of Path or Prefix/Suffix is set.
type Entry struct {
	Key    string `yaml:"key" json:"key"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// Format selects the manifest syntax.
type Format int

const (
	FormatJSONC Format = iota
	FormatYAML
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONC
	}
}

// Parse decodes and validates a manifest.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadFile reads and parses the manifest at path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks that every map has an output and every entry a key and
// exactly one form of value.
func (m *Manifest) Validate() error {
	if len(m.Maps) == 0 {
		return errors.New("manifest lists no maps")
	}
	for i, hm := range m.Maps {
		if hm.Output == "" {
			return fmt.Errorf("maps[%d]: output is required", i)
		}
		for j, e := range hm.Entries {
			if e.Key == "" {
				return fmt.Errorf("maps[%d].entries[%d]: key is required", i, j)
			}
			hasPath := e.Path != ""
			hasPair := e.Prefix != "" || e.Suffix != ""
			if hasPath == hasPair {
				return fmt.Errorf("maps[%d].entries[%d] (%s): set either path or prefix/suffix", i, j, e.Key)
			}
		}
	}
	return nil
}

// Jobs converts the manifest into WriteAll jobs, splitting path values on
// sep. Relative outputs are resolved against baseDir.
func (m *Manifest) Jobs(baseDir string, sep byte) []headermap.Job {
	jobs := make([]headermap.Job, 0, len(m.Maps))
	for _, hm := range m.Maps {
		output := hm.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(baseDir, output)
		}
		entries := make([]headermap.Entry, 0, len(hm.Entries))
		for _, e := range hm.Entries {
			entries = append(entries, e.resolve(sep))
		}
		jobs = append(jobs, headermap.Job{Path: output, Entries: entries})
	}
	return jobs
}

func (e Entry) resolve(sep byte) headermap.Entry {
	if e.Path == "" {
		return headermap.Entry{Key: e.Key, Prefix: e.Prefix, Suffix: e.Suffix}
	}
	prefix, suffix := headermap.SplitPath(e.Path, sep)
	return headermap.Entry{Key: e.Key, Prefix: prefix, Suffix: suffix}
}
