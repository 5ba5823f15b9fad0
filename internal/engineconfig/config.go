// Package engineconfig reads the engine's audio backend buffer size from a
// ModSettings-style `.ini` file: `[Audioware.AudiowareConfig] bufferSize`.
// Any failure to find or parse the setting — a missing file, a missing
// section or key, or an unrecognized value — falls back to [Auto] and is
// logged at Info, never returned as an error: a missing or malformed
// ModSettings file is routine, not exceptional.
package engineconfig

import (
	"log/slog"

	"gopkg.in/ini.v1"
)

// BufferSize is the fixed audio backend buffer size requested, or Auto to
// let the backend choose.
type BufferSize int

// Named buffer sizes, matching the values ModSettings writes to the ini
// file's bufferSize key.
const (
	Auto           BufferSize = 0
	BufferSize64   BufferSize = 64
	BufferSize128  BufferSize = 128
	BufferSize256  BufferSize = 256
	BufferSize512  BufferSize = 512
	BufferSize1024 BufferSize = 1024
	BufferSize2048 BufferSize = 2048
)

// section and key are the exact names ModSettings writes; they must match
// the Redscript config naming on the original side.
const (
	section = "Audioware.AudiowareConfig"
	key     = "bufferSize"
)

var namesToSizes = map[string]BufferSize{
	"Auto":       Auto,
	"Option64":   BufferSize64,
	"Option128":  BufferSize128,
	"Option256":  BufferSize256,
	"Option512":  BufferSize512,
	"Option1024": BufferSize1024,
	"Option2048": BufferSize2048,
}

// Load reads path and returns the configured [BufferSize], falling back to
// [Auto] on any error.
func Load(path string) BufferSize {
	cfg, err := ini.Load(path)
	if err != nil {
		slog.Info("engineconfig: buffer size ini not found, using Auto", "path", path, "err", err)
		return Auto
	}
	return fromINI(cfg)
}

func fromINI(cfg *ini.File) BufferSize {
	sec, err := cfg.GetSection(section)
	if err != nil {
		slog.Info("engineconfig: section missing, using Auto", "section", section, "err", err)
		return Auto
	}
	k, err := sec.GetKey(key)
	if err != nil {
		slog.Info("engineconfig: key missing, using Auto", "key", key, "err", err)
		return Auto
	}
	size, ok := namesToSizes[k.String()]
	if !ok {
		slog.Info("engineconfig: unrecognized value, using Auto", "value", k.String())
		return Auto
	}
	return size
}
