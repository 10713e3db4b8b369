// Package manifest handles sigil.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a sigil.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Codegen Codegen `toml:"codegen"`

	// Dir is the directory containing the sigil.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures source file locations.
type Source struct {
	Dirs  []string `toml:"dirs"`
	Entry string   `toml:"entry"`
}

// Codegen configures the code-generation step.
type Codegen struct {
	Optimize bool   `toml:"optimize"`
	Output   string `toml:"output"`
	CacheDir string `toml:"cache-dir"`
}

// Load parses a sigil.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "sigil.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(m.Source.Dirs) == 0 {
		m.Source.Dirs = []string{"src"}
	}
	if m.Codegen.Output == "" {
		m.Codegen.Output = "build"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a sigil.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "sigil.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// SourceDirPaths returns absolute paths for the configured source directories.
func (m *Manifest) SourceDirPaths() []string {
	var paths []string
	for _, d := range m.Source.Dirs {
		paths = append(paths, filepath.Join(m.Dir, d))
	}
	return paths
}

// OutputDir returns the absolute path of the build output directory.
func (m *Manifest) OutputDir() string {
	return filepath.Join(m.Dir, m.Codegen.Output)
}

// CachePath returns the path of the build-cache database, defaulting to
// .sigil/cache.db under the project directory.
func (m *Manifest) CachePath() string {
	if m.Codegen.CacheDir != "" {
		return filepath.Join(m.Dir, m.Codegen.CacheDir, "cache.db")
	}
	return filepath.Join(m.Dir, ".sigil", "cache.db")
}
