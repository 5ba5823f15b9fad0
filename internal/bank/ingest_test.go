package bank_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/manifest"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

func TestIngest_SimpleSections(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "door.wav")
	writeFakeAudio(t, tmp, "theme.wav")
	writeFakeAudio(t, tmp, "jingle.wav")
	writeFakeAudio(t, tmp, "track.wav")

	m := &manifest.Manifest{
		SFX:      map[string]manifest.AudioEntry{"door": {File: "door.wav"}},
		Music:    map[string]manifest.AudioEntry{"theme": {File: "theme.wav"}},
		Jingles:  map[string]manifest.AudioEntry{"station_id": {File: "jingle.wav"}},
		Playlist: map[string]manifest.AudioEntry{"track_1": {File: "track.wav"}},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	if err := bank.Ingest(r, loaded); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	for _, name := range []string{"door", "theme", "station_id", "track_1"} {
		if !r.ExistsForName(name) {
			t.Errorf("expected %q to be registered", name)
		}
	}
}

func TestIngest_OnoWithBothGendersResolvesEach(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "grunt_f.wav")
	writeFakeAudio(t, tmp, "grunt_m.wav")

	m := &manifest.Manifest{
		Onos: map[string]manifest.OnoEntry{
			"pain_grunt": {
				Fem:  &manifest.AudioEntry{File: "grunt_f.wav"},
				Male: &manifest.AudioEntry{File: "grunt_m.wav"},
			},
		},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	if err := bank.Ingest(r, loaded); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := r.Resolve("pain_grunt", audio.LocaleEnUS, audio.GenderFemale, true); err != nil {
		t.Errorf("resolve fem grunt: %v", err)
	}
	if _, err := r.Resolve("pain_grunt", audio.LocaleEnUS, audio.GenderMale, true); err != nil {
		t.Errorf("resolve male grunt: %v", err)
	}
}

func TestIngest_VoiceSingleLocaleWithSubtitle(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "greeting_en.wav")

	m := &manifest.Manifest{
		Voices: map[string]manifest.VoiceEntry{
			"greeting": {
				Locales: map[audio.Locale]manifest.LocaleVariant{
					audio.LocaleEnUS: {Single: &manifest.AudioEntry{File: "greeting_en.wav"}},
				},
				Subtitles: map[audio.Locale]*manifest.Subtitle{
					audio.LocaleEnUS: {Msg: "Hello there"},
				},
			},
		},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	if err := bank.Ingest(r, loaded); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	id, err := r.Resolve("greeting", audio.LocaleEnUS, audio.GenderUnset, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.Key.Kind != bank.KindLocale {
		t.Errorf("expected locale key, got %v", id.Key.Kind)
	}

	subs := r.Subtitles(audio.LocaleEnUS)
	pair, ok := subs["greeting"]
	if !ok || pair[0] != "Hello there" {
		t.Errorf("expected subtitle pair with Hello there, got %v ok=%v", pair, ok)
	}
}

func TestIngest_VoiceGenderedLocaleRequiresBothGenders(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "greeting_f.wav")

	m := &manifest.Manifest{
		Voices: map[string]manifest.VoiceEntry{
			"greeting": {
				Locales: map[audio.Locale]manifest.LocaleVariant{
					audio.LocaleFrFR: {Fem: &manifest.AudioEntry{File: "greeting_f.wav"}},
				},
			},
		},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	err := bank.Ingest(r, loaded)
	if err == nil {
		t.Fatal("expected error for missing male variant")
	}
	if !errors.Is(err, bank.ErrRequiresFullGenderCoverage) {
		t.Errorf("expected ErrRequiresFullGenderCoverage, got %v", err)
	}
}

func TestIngest_VoiceGenderedLocaleBothPresent(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "greeting_f.wav")
	writeFakeAudio(t, tmp, "greeting_m.wav")

	m := &manifest.Manifest{
		Voices: map[string]manifest.VoiceEntry{
			"greeting": {
				Locales: map[audio.Locale]manifest.LocaleVariant{
					audio.LocaleFrFR: {
						Fem:  &manifest.AudioEntry{File: "greeting_f.wav"},
						Male: &manifest.AudioEntry{File: "greeting_m.wav"},
					},
				},
			},
		},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	if err := bank.Ingest(r, loaded); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := r.Resolve("greeting", audio.LocaleFrFR, audio.GenderFemale, true); err != nil {
		t.Errorf("resolve fem: %v", err)
	}
	if _, err := r.Resolve("greeting", audio.LocaleFrFR, audio.GenderMale, true); err != nil {
		t.Errorf("resolve male: %v", err)
	}
}

func TestIngest_ContinuesPastBadEntry(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeFakeAudio(t, tmp, "good.wav")

	m := &manifest.Manifest{
		SFX: map[string]manifest.AudioEntry{
			"good": {File: "good.wav"},
			"bad":  {File: "missing.wav"},
		},
	}
	loaded := manifest.Loaded{Path: filepath.Join(tmp, "manifest.yml"), Manifest: m}

	r := bank.New()
	err := bank.Ingest(r, loaded)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !r.ExistsForName("good") {
		t.Error("expected good entry to still be ingested despite bad sibling")
	}
	if r.ExistsForName("bad") {
		t.Error("bad entry must not be registered")
	}
}
