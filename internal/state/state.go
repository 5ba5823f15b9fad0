// Package state holds the engine's small set of shared global knobs —
// game/session phase, player gender, locale, EQ preset, reverb mix, and the
// muted-event set — behind a protocol that favors lock-free reads since
// every host-boundary query (is_specific_muted and friends) must never
// block on the engine's own tick.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/silverlode-studios/soundrig/internal/mixer"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// HookKind selects which playback hook an event-level mute applies to,
// mirroring the original engine's per-event-type mute granularity (e.g. a
// bark can be muted for ambient replay but still play on direct trigger).
type HookKind uint8

const (
	HookOnStart HookKind = 1 << iota
	HookOnStop
	HookOnRetrigger
)

// HookAll covers every hook kind; used by plain Mute/Unmute.
const HookAll = HookOnStart | HookOnStop | HookOnRetrigger

// muteEntry is one event's muted hook bitmask.
type muteEntry struct {
	eventName string
	hooks     HookKind
}

// muteSnapshot is an immutable published view of the mute set. Readers
// never mutate it; a new slice is built and published wholesale on every
// write, so old snapshots already being read stay valid until the GC
// reclaims them once no reader holds a reference — Go's garbage collector
// does the retirement bookkeeping the original's generation-counted
// manual retire list exists to hand-roll for an unmanaged Rust heap.
type muteSnapshot struct {
	entries []muteEntry
}

func (s *muteSnapshot) indexOf(eventName string) int {
	for i, e := range s.entries {
		if e.eventName == eventName {
			return i
		}
	}
	return -1
}

// MuteSet is the lock-free-read, short-critical-section-write mute table.
// Reads (IsMuted/IsSpecificMuted) only ever load an atomic pointer; writes
// take a mutex just long enough to copy-on-write the next snapshot.
type MuteSet struct {
	current atomic.Pointer[muteSnapshot]
	writeMu sync.Mutex
}

// NewMuteSet returns an empty mute set.
func NewMuteSet() *MuteSet {
	m := &MuteSet{}
	m.current.Store(&muteSnapshot{})
	return m
}

func (m *MuteSet) snapshot() *muteSnapshot {
	return m.current.Load()
}

// IsMuted reports whether eventName is muted for any hook.
func (m *MuteSet) IsMuted(eventName string) bool {
	snap := m.snapshot()
	return snap.indexOf(eventName) >= 0
}

// IsSpecificMuted reports whether eventName is muted for the given hook.
func (m *MuteSet) IsSpecificMuted(eventName string, hook HookKind) bool {
	snap := m.snapshot()
	i := snap.indexOf(eventName)
	if i < 0 {
		return false
	}
	return snap.entries[i].hooks&hook != 0
}

// Mute marks eventName muted for every hook kind.
func (m *MuteSet) Mute(eventName string) {
	m.MuteSpecific(eventName, HookAll)
}

// MuteSpecific adds hook to eventName's muted hook set, creating the entry
// if it doesn't already exist.
func (m *MuteSet) MuteSpecific(eventName string, hook HookKind) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	next := make([]muteEntry, len(prev.entries))
	copy(next, prev.entries)

	if i := (&muteSnapshot{entries: next}).indexOf(eventName); i >= 0 {
		next[i].hooks |= hook
	} else {
		next = append(next, muteEntry{eventName: eventName, hooks: hook})
	}
	m.current.Store(&muteSnapshot{entries: next})
}

// Unmute clears eventName's mute entry entirely.
func (m *MuteSet) Unmute(eventName string) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	next := make([]muteEntry, 0, len(prev.entries))
	for _, e := range prev.entries {
		if e.eventName != eventName {
			next = append(next, e)
		}
	}
	m.current.Store(&muteSnapshot{entries: next})
}

// UnmuteSpecific clears hook from eventName's muted hook set; if no hooks
// remain the entry is dropped entirely.
func (m *MuteSet) UnmuteSpecific(eventName string, hook HookKind) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	next := make([]muteEntry, 0, len(prev.entries))
	for _, e := range prev.entries {
		if e.eventName == eventName {
			e.hooks &^= hook
			if e.hooks == 0 {
				continue
			}
		}
		next = append(next, e)
	}
	m.current.Store(&muteSnapshot{entries: next})
}

// Dilation is the time-dilation factor applied to affected-by-dilation
// handles, stored as a fixed-point int64 so it can be an atomic value.
type Dilation struct {
	bits atomic.Uint64
}

// SetFactor stores the current dilation factor (1.0 = real time).
func (d *Dilation) SetFactor(factor float64) {
	d.bits.Store(uint64(int64(factor * 1e9)))
}

// Factor returns the current dilation factor.
func (d *Dilation) Factor() float64 {
	return float64(int64(d.bits.Load())) / 1e9
}

// State is the engine's full set of shared global knobs, each backed by an
// atomic so host-boundary reads never contend with the engine tick's
// writes.
type State struct {
	gameState    atomic.Int32
	sessionPhase atomic.Int32
	systemPhase  atomic.Int32

	playerGender  atomic.Int32
	spokenLocale  atomic.Int32
	writtenLocale atomic.Int32

	preset    atomic.Int32
	reverbMix atomic.Uint64 // fixed-point, see Dilation.SetFactor/Factor encoding

	muteInBackground atomic.Bool

	Dilation Dilation
	Mutes    *MuteSet
}

// New returns a state with the host's documented startup defaults: game
// load phase, gender unset until the host reports it, locales at
// [audio.DefaultLocale] (en-us), no EQ
// preset, reverb mix at unity.
func New() *State {
	s := &State{Mutes: NewMuteSet()}
	s.gameState.Store(int32(audio.GameLoad))
	s.playerGender.Store(int32(audio.GenderUnset))
	s.reverbMix.Store(uint64(int64(1.0 * 1e9)))
	return s
}

func (s *State) GameState() audio.GameState      { return audio.GameState(s.gameState.Load()) }
func (s *State) SetGameState(v audio.GameState)   { s.gameState.Store(int32(v)) }
func (s *State) SessionPhase() audio.SessionPhase { return audio.SessionPhase(s.sessionPhase.Load()) }
func (s *State) SetSessionPhase(v audio.SessionPhase) {
	s.sessionPhase.Store(int32(v))
}
func (s *State) SystemPhase() audio.SystemPhase    { return audio.SystemPhase(s.systemPhase.Load()) }
func (s *State) SetSystemPhase(v audio.SystemPhase) { s.systemPhase.Store(int32(v)) }

func (s *State) PlayerGender() audio.Gender     { return audio.Gender(s.playerGender.Load()) }
func (s *State) SetPlayerGender(v audio.Gender) { s.playerGender.Store(int32(v)) }

func (s *State) SpokenLocale() audio.Locale     { return audio.Locale(s.spokenLocale.Load()) }
func (s *State) SetSpokenLocale(v audio.Locale) { s.spokenLocale.Store(int32(v)) }

func (s *State) WrittenLocale() audio.Locale     { return audio.Locale(s.writtenLocale.Load()) }
func (s *State) SetWrittenLocale(v audio.Locale) { s.writtenLocale.Store(int32(v)) }

func (s *State) Preset() mixer.Preset     { return mixer.Preset(s.preset.Load()) }
func (s *State) SetPreset(v mixer.Preset) { s.preset.Store(int32(v)) }

// ReverbMix returns the current reverb send multiplier (0..1+).
func (s *State) ReverbMix() float64 {
	return float64(int64(s.reverbMix.Load())) / 1e9
}

// SetReverbMix updates the reverb send multiplier.
func (s *State) SetReverbMix(v float64) {
	s.reverbMix.Store(uint64(int64(v * 1e9)))
}

// MuteInBackground reports whether playback should mute while the host
// window is unfocused.
func (s *State) MuteInBackground() bool { return s.muteInBackground.Load() }

// SetMuteInBackground updates the mute-in-background flag.
func (s *State) SetMuteInBackground(v bool) { s.muteInBackground.Store(v) }
