// Package level loads level files: ordered obstacle records in meters,
// stored as YAML.
package level

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// ErrInvalidIndex is returned when a level index is out of range.
var ErrInvalidIndex = errors.New("invalid level index")

// Parse decodes a level from YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing level YAML: %w", err)
	}
	return &f, nil
}

// Load reads a level from a YAML file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Source = path
	return f, nil
}

// Catalog is the ordered list of playable levels.
type Catalog struct {
	Levels []*File
}

// LoadDir loads every *.yaml file in dir, ordered by file name.
func LoadDir(dir string) (*Catalog, error) {
	return loadFS(os.DirFS(dir), ".", dir)
}

// Default returns the built-in levels.
func Default() (*Catalog, error) {
	return loadFS(builtin, "data", "")
}

func loadFS(fsys fs.FS, dir, origin string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no level files in %q", origin)
	}
	sort.Strings(paths)

	c := &Catalog{}
	for _, name := range paths {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading level file: %w", err)
		}
		f, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if origin != "" {
			f.Source = filepath.Join(origin, filepath.FromSlash(name))
		} else {
			f.Source = "builtin:" + name
		}
		c.Levels = append(c.Levels, f)
	}
	return c, nil
}

// Len returns the number of levels.
func (c *Catalog) Len() int { return len(c.Levels) }

// Get returns the level at index i.
func (c *Catalog) Get(i int) (*File, error) {
	if i < 0 || i >= len(c.Levels) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(c.Levels))
	}
	return c.Levels[i], nil
}

// HasNext reports whether a level follows index i.
func (c *Catalog) HasNext(i int) bool {
	return i >= 0 && i < len(c.Levels)-1
}

// Names returns the level names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Levels))
	for i, f := range c.Levels {
		names[i] = f.Name
	}
	return names
}
