package manifest

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ErrDuplicateAcrossDepots means a mod with the same folder name exists in
// both depots; the r6/audioware (plugin-depot) copy is dropped in favor of
// the REDmod (game-mods) copy.
var ErrDuplicateAcrossDepots = errors.New("manifest: duplicate mod folder across depots")

// DepotKind distinguishes the two folders mods can ship manifests under.
type DepotKind int

const (
	// REDmodDepot is the shared `<game>/mods/<mod-name>/` tree.
	REDmodDepot DepotKind = iota
	// R6AudiowareDepot is the plugin-specific `<game>/r6/audioware/<mod-name>/` tree.
	R6AudiowareDepot
)

func (k DepotKind) String() string {
	switch k {
	case REDmodDepot:
		return "mods"
	case R6AudiowareDepot:
		return "r6/audioware"
	default:
		return "unknown"
	}
}

// Mod is one mod's folder within a depot: a directory that may contain one
// or more YAML manifest files.
type Mod struct {
	Kind DepotKind
	Path string
}

// Name returns the mod's folder name, used as the display name in conflict
// and load-error reporting.
func (m Mod) Name() string {
	return filepath.Base(m.Path)
}

// ManifestPaths lists the mod's manifest files, filtered to .yml/.yaml and
// sorted for deterministic load order. Missing/unreadable folders return an
// empty slice rather than an error — a mod folder with no manifests is not
// a failure.
func (m Mod) ManifestPaths() []string {
	entries, err := os.ReadDir(m.Path)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isYAML(e.Name()) {
			paths = append(paths, filepath.Join(m.Path, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yml" || ext == ".yaml"
}

// depotFolder locates one of the two depot roots by walking up exactly three
// parent directories from binDir (mirroring <game>/bin/x64/<exe> -> <game>)
// and joining the depot-specific subpath. Returns "", false if binDir
// doesn't have three parents.
func depotFolder(binDir string, kind DepotKind) (string, bool) {
	dir := binDir
	for range 3 {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
	switch kind {
	case REDmodDepot:
		return filepath.Join(dir, "mods"), true
	case R6AudiowareDepot:
		return filepath.Join(dir, "r6", "audioware"), true
	default:
		return "", false
	}
}

// DiscoverMods walks up from binDir (the directory containing the running
// executable, or, in cmd/soundrig, the value of its -depot flag) to find
// both depot roots,
// then lists every mod subfolder within each, sorted by name. A depot root
// that doesn't exist yet contributes no mods rather than an error.
//
// When a mod folder of the same name exists in both depots, the REDmod
// (game-mods) copy wins and the r6/audioware copy is dropped with a
// warning, per [ErrDuplicateAcrossDepots].
func DiscoverMods(binDir string) []Mod {
	root, ok := depotFolder(binDir, REDmodDepot)
	var redmodMods []Mod
	if ok {
		redmodMods = modsInDepot(REDmodDepot, root)
	}

	redmodNames := make(map[string]bool, len(redmodMods))
	for _, m := range redmodMods {
		redmodNames[m.Name()] = true
	}

	var r6Mods []Mod
	if root, ok := depotFolder(binDir, R6AudiowareDepot); ok {
		for _, m := range modsInDepot(R6AudiowareDepot, root) {
			if redmodNames[m.Name()] {
				slog.Warn("manifest: mod present in both depots, dropping r6/audioware copy",
					"mod", m.Name(),
					"err", ErrDuplicateAcrossDepots,
				)
				continue
			}
			r6Mods = append(r6Mods, m)
		}
	}

	mods := make([]Mod, 0, len(redmodMods)+len(r6Mods))
	mods = append(mods, redmodMods...)
	mods = append(mods, r6Mods...)
	return mods
}

func modsInDepot(kind DepotKind, root string) []Mod {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var mods []Mod
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		mods = append(mods, Mod{Kind: kind, Path: filepath.Join(root, e.Name())})
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Path < mods[j].Path })
	return mods
}
