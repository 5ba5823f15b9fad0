package bank

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/silverlode-studios/soundrig/internal/manifest"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Data is one in-memory entry's decoded audio, ready to play without
// further file I/O.
type Data struct {
	PCM    []byte
	Format audio.Format
}

// DialogLine is a subtitle's text and line type. For both-keyed subtitles
// the gender it was authored for is carried by the registry key, not by the
// line. Mirrors manifest.Subtitle but scoped to what the registry needs at
// lookup time.
type DialogLine struct {
	Msg  string
	Line manifest.LineType
}

// Registry is the conflict-checked identity pool plus the audio data and
// settings addressed by it. Banks load once at engine startup and are
// immutable for the process lifetime after that: the mutating methods are
// called while loading (through [Ingest]), not concurrently with lookups.
type Registry struct {
	mu sync.RWMutex

	ids map[Id]struct{}

	inMemory map[Key]Data
	settings map[Key]*manifest.Settings

	singleSubs map[Key]DialogLine // KindLocale-keyed
	dualSubs   map[Key]DialogLine // KindBoth-keyed

	// IsHostName reports whether name already exists in the host's own
	// vanilla-event identifier pool. A standalone engine has no host to
	// query, so it defaults to always-false (§3's "Name must not already
	// exist in the host's identifier pool" becomes a no-op outside a real
	// host integration); [cmd/soundrig]-style hosts may inject a real check.
	IsHostName func(name string) bool
}

// New returns an empty [Registry] ready for [Registry.Insert] calls.
func New() *Registry {
	return &Registry{
		ids:        make(map[Id]struct{}),
		inMemory:   make(map[Key]Data),
		settings:   make(map[Key]*manifest.Settings),
		singleSubs: make(map[Key]DialogLine),
		dualSubs:   make(map[Key]DialogLine),
		IsHostName: func(string) bool { return false },
	}
}

// Insert runs the atomic insertion protocol for one (key, path) pair:
// host-name check, conflict check, file validation/decode, then commit. No
// partial state is left behind on failure.
func (r *Registry) Insert(key Key, source Source, inMemory bool, usage UsageKind, path string, settings *manifest.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.IsHostName(key.Name) {
		return fmt.Errorf("%w: %q", ErrNonUniqueKey, key.Name)
	}
	if Conflicts(r.ids, key) {
		return fmt.Errorf("%w: %s", ErrConflictingKey, key)
	}

	var id Id
	var data Data
	if inMemory {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: read %q: %v", ErrInvalidAudio, path, err)
		}
		pcm, format, err := audio.Decode(path, raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAudio, err)
		}
		data = Data{PCM: pcm, Format: format}
		id = NewInMemoryId(key, source)
	} else {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: stat %q: %v", ErrInvalidAudio, path, err)
		}
		id = NewOnDemandId(usage, key, path, source)
	}

	r.ids[id] = struct{}{}
	if inMemory {
		r.inMemory[key] = data
	} else {
		r.settings[key] = settings
	}
	return nil
}

// InsertSubtitle attaches a subtitle to a [KindLocale] or [KindBoth] key.
// The caller must ensure the key shape matches the paired voice entry's
// shape; the registry itself only accepts the two subtitle-bearing kinds.
func (r *Registry) InsertSubtitle(key Key, line DialogLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch key.Kind {
	case KindLocale:
		r.singleSubs[key] = line
	case KindBoth:
		r.dualSubs[key] = line
	default:
		return fmt.Errorf("%w: key kind %s cannot carry a subtitle", ErrInvalidSubtitle, key.Kind)
	}
	return nil
}

// Resolve picks the best-matching [Id] for an event lookup, following the
// precedence order Both > Locale > Gender > Unique.
//
// A miss is diagnosed against the shape registered for name (every Key
// sharing a name shares one shape): a [KindGender] or [KindBoth] entry
// with gender unknown misses as [ErrRequireGender]; a [KindLocale] or
// [KindBoth] entry with no match at the requested spoken locale misses as
// [ErrMissingSpokenLocale]; a name with no registered entry at all misses
// as [ErrNotFound].
func (r *Registry) Resolve(name string, locale audio.Locale, gender audio.Gender, genderKnown bool) (Id, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates [4]KeyKind
	if genderKnown {
		candidates = [4]KeyKind{KindBoth, KindLocale, KindGender, KindUnique}
	} else {
		candidates = [4]KeyKind{KindLocale, KindUnique, KindGender, KindBoth}
	}

	for _, kind := range candidates {
		for id := range r.ids {
			if id.Key.Kind != kind {
				continue
			}
			if id.Key.Matches(name, locale, gender, genderKnown) {
				return id, nil
			}
		}
	}

	for id := range r.ids {
		if id.Key.Name != name {
			continue
		}
		switch id.Key.Kind {
		case KindGender:
			if !genderKnown {
				return Id{}, fmt.Errorf("%w: %q", ErrRequireGender, name)
			}
		case KindBoth:
			if !genderKnown {
				return Id{}, fmt.Errorf("%w: %q", ErrRequireGender, name)
			}
			return Id{}, fmt.Errorf("%w: %q", ErrMissingSpokenLocale, name)
		case KindLocale:
			return Id{}, fmt.Errorf("%w: %q", ErrMissingSpokenLocale, name)
		}
		break
	}
	return Id{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// SubtitleFor looks up a single event's subtitle text at writtenLocale,
// following the same Both > Locale precedence [Registry.Resolve] uses for
// audio (a [KindBoth] subtitle additionally requires a known gender).
// Misses a locale with no registered subtitle shape for name as
// [ErrMissingWrittenLocale]; a name with no subtitle at all as
// [ErrNotFound].
func (r *Registry) SubtitleFor(name string, writtenLocale audio.Locale, gender audio.Gender, genderKnown bool) (DialogLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if genderKnown {
		for key, line := range r.dualSubs {
			if key.Name == name && key.Locale == writtenLocale && key.Gender == gender {
				return line, nil
			}
		}
	}
	for key, line := range r.singleSubs {
		if key.Name == name && key.Locale == writtenLocale {
			return line, nil
		}
	}

	for key := range r.dualSubs {
		if key.Name == name {
			return DialogLine{}, fmt.Errorf("%w: %q", ErrMissingWrittenLocale, name)
		}
	}
	for key := range r.singleSubs {
		if key.Name == name {
			return DialogLine{}, fmt.Errorf("%w: %q", ErrMissingWrittenLocale, name)
		}
	}
	return DialogLine{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Data returns the decoded audio for an in-memory id. Returns ok=false for
// an on-demand id, for which the registry holds no audio, only the path the
// id was created with.
func (r *Registry) Data(id Id) (Data, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id.Kind != KindInMemory {
		return Data{}, false
	}
	d, ok := r.inMemory[id.Key]
	return d, ok
}

// Settings returns the merged settings stored for an on-demand id's key.
func (r *Registry) Settings(id Id) (*manifest.Settings, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[id.Key]
	return s, ok
}

// Subtitles returns every (name, (femaleText, maleText)) pair known for the
// given written locale. A both-keyed name is included only when both its
// female and male lines exist for that locale; names with one gender are
// left out here.
func (r *Registry) Subtitles(locale audio.Locale) map[string][2]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][2]string)
	for key, line := range r.singleSubs {
		if key.Locale != locale {
			continue
		}
		out[key.Name] = [2]string{line.Msg, line.Msg}
	}

	fem := make(map[string]string)
	male := make(map[string]string)
	for key, line := range r.dualSubs {
		if key.Locale != locale {
			continue
		}
		if key.Gender == audio.GenderFemale {
			fem[key.Name] = line.Msg
		} else if key.Gender == audio.GenderMale {
			male[key.Name] = line.Msg
		}
	}
	for name, f := range fem {
		if m, ok := male[name]; ok {
			out[name] = [2]string{f, m}
		}
	}
	return out
}

// ExistsForName reports whether any id is registered under name, across any
// key kind.
func (r *Registry) ExistsForName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id := range r.ids {
		if id.Key.Name == name {
			return true
		}
	}
	return false
}

// Names returns every distinct event name currently registered, unsorted.
// Used by the "did you mean" suggestion path on a failed [Registry.Resolve].
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for id := range r.ids {
		seen[id.Key.Name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	return names
}

// Report summarizes the registry's contents: counts of on-demand-static,
// on-demand-streaming and in-memory ids, the load duration, and the total.
// Formats the same breakdown the engine core logs on boot as a
// ReportInitialization lifecycle message.
type Report struct {
	OnDemandStatic    int
	OnDemandStreaming int
	InMemory          int
	Total             int
	Duration          time.Duration
}

// String renders the report the way the engine core logs it at boot.
func (rep Report) String() string {
	return fmt.Sprintf(
		"ids:\n- on-demand static audio    -> %d\n- on-demand streaming audio -> %d\n- in-memory static audio    -> %d\nfor a total of: %d id(s)\nin %s",
		rep.OnDemandStatic, rep.OnDemandStreaming, rep.InMemory, rep.Total, rep.Duration,
	)
}

// BuildReport summarizes the registry's current id set. elapsed is the
// caller-measured load duration (the registry itself does not time its own
// construction, since loading inserts across many [Ingest] calls).
func (r *Registry) BuildReport(elapsed time.Duration) Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rep Report
	rep.Duration = elapsed
	for id := range r.ids {
		switch {
		case id.Kind == KindOnDemand && id.Usage == UsageStatic:
			rep.OnDemandStatic++
		case id.Kind == KindOnDemand && id.Usage == UsageStreaming:
			rep.OnDemandStreaming++
		case id.Kind == KindInMemory:
			rep.InMemory++
		}
	}
	rep.Total = len(r.ids)
	return rep
}

// LogReport logs rep at Info level, matching the engine's boot-time summary
// line.
func LogReport(rep Report) {
	slog.Info("bank registry initialized",
		"on_demand_static", rep.OnDemandStatic,
		"on_demand_streaming", rep.OnDemandStreaming,
		"in_memory", rep.InMemory,
		"total", rep.Total,
		"duration", rep.Duration,
	)
}
