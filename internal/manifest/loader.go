package manifest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loaded pairs a parsed [Manifest] with the [Mod] it came from, so load-time
// errors and later conflict reports can name the offending mod and file.
type Loaded struct {
	Mod      Mod
	Path     string
	Manifest *Manifest
}

// LoadFromReader decodes one manifest file from r. Unknown top-level keys
// are ignored rather than rejected — manifests are third-party mod content,
// and a typo'd or forward-looking key in one file must not abort the load
// (mirrors spec's "processing continues across other files").
func LoadFromReader(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode yaml: %w", err)
	}
	return &m, nil
}

// LoadFile decodes one manifest file from disk.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer f.Close()

	m, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("manifest: %q: %w", path, err)
	}
	return m, nil
}

// LoadMod loads every manifest file within m, in sorted filename order. A
// file that fails to parse is recorded but does not stop the remaining
// files in the same mod from loading; all such errors are returned joined.
func LoadMod(m Mod) ([]Loaded, error) {
	paths := m.ManifestPaths()
	if len(paths) == 0 {
		return nil, nil
	}

	var loaded []Loaded
	var errs []error
	for _, path := range paths {
		parsed, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			slog.Warn("manifest: failed to load file, skipping",
				"mod", m.Name(),
				"path", path,
				"err", err,
			)
			continue
		}
		loaded = append(loaded, Loaded{Mod: m, Path: path, Manifest: parsed})
	}
	return loaded, errors.Join(errs...)
}

// LoadAll discovers every mod across both depots rooted under binDir and
// loads every manifest file within each, fanning the per-mod work out across
// goroutines (one mod's I/O never waits on another's). Per-file and per-mod
// failures are collected and joined into the returned error, but never
// prevent other files or mods from loading — a single malformed manifest
// must not take down the whole engine boot.
func LoadAll(binDir string) ([]Loaded, error) {
	mods := DiscoverMods(binDir)

	var (
		mu    sync.Mutex
		all   []Loaded
		errs  []error
		group errgroup.Group
	)
	for _, m := range mods {
		group.Go(func() error {
			loaded, err := LoadMod(m)
			mu.Lock()
			defer mu.Unlock()
			all = append(all, loaded...)
			if err != nil {
				errs = append(errs, err)
			}
			return nil
		})
	}
	group.Wait()

	return all, errors.Join(errs...)
}
