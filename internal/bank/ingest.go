package bank

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/silverlode-studios/soundrig/internal/manifest"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Ingest applies every section of one parsed manifest to r, continuing past
// individual entry failures — a single bad entry must not block the rest of
// the file, the same tolerance the manifest loader already applies across
// files within a mod, just at entry granularity. All errors encountered are
// joined and returned; a non-nil error does not mean nothing was inserted.
func Ingest(r *Registry, loaded manifest.Loaded) error {
	dir := filepath.Dir(loaded.Path)
	m := loaded.Manifest

	var errs []error
	for name, entry := range m.SFX {
		if err := ingestSimple(r, dir, name, entry, SourceSFX); err != nil {
			errs = append(errs, err)
		}
	}
	for name, entry := range m.Music {
		if err := ingestSimple(r, dir, name, entry, SourceMusic); err != nil {
			errs = append(errs, err)
		}
	}
	for name, entry := range m.Jingles {
		if err := ingestSimple(r, dir, name, entry, SourceJingle); err != nil {
			errs = append(errs, err)
		}
	}
	for name, entry := range m.Playlist {
		if err := ingestSimple(r, dir, name, entry, SourcePlaylist); err != nil {
			errs = append(errs, err)
		}
	}
	for name, entry := range m.Onos {
		if err := ingestOno(r, dir, name, entry); err != nil {
			errs = append(errs, err)
		}
	}
	for name, entry := range m.Voices {
		if err := ingestVoice(r, dir, name, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func resolveUsage(u manifest.Usage) (inMemory bool, usage UsageKind) {
	switch u {
	case manifest.UsageInMemory:
		return true, UsageStatic
	case manifest.UsageStreaming:
		return false, UsageStreaming
	default:
		return false, UsageStatic
	}
}

func ingestSimple(r *Registry, dir, name string, entry manifest.AudioEntry, source Source) error {
	key := NewUniqueKey(name)
	inMemory, usage := resolveUsage(entry.Usage)
	path := resolvePath(dir, entry.File)
	if err := r.Insert(key, source, inMemory, usage, path, entry.Settings); err != nil {
		return fmt.Errorf("%s %q: %w", source, name, err)
	}
	return nil
}

func ingestOno(r *Registry, dir, name string, entry manifest.OnoEntry) error {
	if (entry.Fem == nil) != (entry.Male == nil) {
		return fmt.Errorf("ono %q: %w", name, ErrRequiresFullGenderCoverage)
	}
	inMemory, usage := resolveUsage(entry.Usage)
	var errs []error
	if entry.Fem != nil {
		key := NewGenderKey(name, audio.GenderFemale)
		settings := manifest.MergeInto(entry.Fem.Settings, entry.Settings)
		path := resolvePath(dir, entry.Fem.File)
		if err := r.Insert(key, SourceOno, inMemory, usage, path, settings); err != nil {
			errs = append(errs, fmt.Errorf("ono %q (fem): %w", name, err))
		}
	}
	if entry.Male != nil {
		key := NewGenderKey(name, audio.GenderMale)
		settings := manifest.MergeInto(entry.Male.Settings, entry.Settings)
		path := resolvePath(dir, entry.Male.File)
		if err := r.Insert(key, SourceOno, inMemory, usage, path, settings); err != nil {
			errs = append(errs, fmt.Errorf("ono %q (male): %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func ingestVoice(r *Registry, dir, name string, entry manifest.VoiceEntry) error {
	inMemory, usage := resolveUsage(entry.Usage)
	var errs []error

	for locale, variant := range entry.Locales {
		switch {
		case variant.Single != nil:
			key := NewLocaleKey(name, locale)
			settings := manifest.MergeInto(variant.Single.Settings, entry.Settings)
			path := resolvePath(dir, variant.Single.File)
			if err := r.Insert(key, SourceVoice, inMemory, usage, path, settings); err != nil {
				errs = append(errs, fmt.Errorf("voice %q [%s]: %w", name, locale, err))
				continue
			}
			if sub, ok := entry.Subtitles[locale]; ok {
				if err := r.InsertSubtitle(key, DialogLine{Msg: sub.Msg, Line: sub.Line}); err != nil {
					errs = append(errs, fmt.Errorf("voice %q [%s] subtitle: %w", name, locale, err))
				}
			}
		case variant.Fem != nil && variant.Male != nil:
			femKey := NewBothKey(name, locale, audio.GenderFemale)
			maleKey := NewBothKey(name, locale, audio.GenderMale)
			femSettings := manifest.MergeInto(variant.Fem.Settings, entry.Settings)
			maleSettings := manifest.MergeInto(variant.Male.Settings, entry.Settings)
			if err := r.Insert(femKey, SourceVoice, inMemory, usage, resolvePath(dir, variant.Fem.File), femSettings); err != nil {
				errs = append(errs, fmt.Errorf("voice %q [%s] (fem): %w", name, locale, err))
			}
			if err := r.Insert(maleKey, SourceVoice, inMemory, usage, resolvePath(dir, variant.Male.File), maleSettings); err != nil {
				errs = append(errs, fmt.Errorf("voice %q [%s] (male): %w", name, locale, err))
			}
			if sub, ok := entry.Subtitles[locale]; ok {
				line := DialogLine{Msg: sub.Msg, Line: sub.Line}
				if err := r.InsertSubtitle(femKey, line); err != nil {
					errs = append(errs, fmt.Errorf("voice %q [%s] subtitle (fem): %w", name, locale, err))
				}
				if err := r.InsertSubtitle(maleKey, line); err != nil {
					errs = append(errs, fmt.Errorf("voice %q [%s] subtitle (male): %w", name, locale, err))
				}
			}
		case variant.Fem != nil || variant.Male != nil:
			errs = append(errs, fmt.Errorf("voice %q [%s]: %w", name, locale, ErrRequiresFullGenderCoverage))
		}
	}
	return errors.Join(errs...)
}

func resolvePath(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
