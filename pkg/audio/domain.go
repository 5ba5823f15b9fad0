package audio

import (
	"fmt"
	"strings"
)

// Locale is one of the engine's 18 supported BCP-ish locale codes. English
// ([LocaleEnUS]) is the default fallback when the host reports no locale or
// an unknown one.
type Locale int

const (
	LocaleEnUS Locale = iota
	LocaleFrFR
	LocalePlPL
	LocaleJpJP
	LocaleZhCN
	LocaleZhTW
	LocaleArAR
	LocaleCzCZ
	LocaleHuHU
	LocaleTrTR
	LocaleThTH
	LocaleEsES
	LocaleEsMX
	LocaleDeDE
	LocaleItIT
	LocaleKrKR
	LocaleRuRU
	LocalePtBR

	// localeCount must stay last; used for bounds checks.
	localeCount
)

// DefaultLocale is the fallback used whenever the host reports no locale, or
// one this engine doesn't recognize.
const DefaultLocale = LocaleEnUS

var localeCodes = [...]string{
	"en-us", "fr-fr", "pl-pl", "jp-jp", "zh-cn", "zh-tw", "ar-ar", "cz-cz",
	"hu-hu", "tr-tr", "th-th", "es-es", "es-mx", "de-de", "it-it", "kr-kr",
	"ru-ru", "pt-br",
}

// String returns the BCP-ish code for the locale, e.g. "fr-fr".
func (l Locale) String() string {
	if l < 0 || int(l) >= len(localeCodes) {
		return "unknown"
	}
	return localeCodes[l]
}

// ParseLocale parses a BCP-ish locale code, case-insensitively. Unknown or
// empty codes resolve to [DefaultLocale] with ok=false, matching the host
// boundary's "no or unknown locale" fallback rule.
func ParseLocale(code string) (locale Locale, ok bool) {
	for i, c := range localeCodes {
		if strings.EqualFold(c, code) {
			return Locale(i), true
		}
	}
	return DefaultLocale, false
}

// IsValid reports whether l is one of the 18 recognized locale codes.
func (l Locale) IsValid() bool {
	return l >= 0 && int(l) < len(localeCodes)
}

// Gender distinguishes dialogue/ono variants that differ by player or NPC
// gender. Unset means no gender has been resolved yet (e.g. player gender
// queried before character creation completes).
type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderUnset
)

func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "Female"
	case GenderMale:
		return "Male"
	case GenderUnset:
		return "Unset"
	default:
		return "Unknown"
	}
}

// GameState tracks the coarse lifecycle phase of the host game process, as
// reported through [System]/[Session] lifecycle messages.
type GameState int

const (
	GameLoad GameState = iota
	GameMenu
	GameStart
	GameInGame
	GameInMenu
	GameInPause
	GameEnd
	GameUnload
)

func (s GameState) String() string {
	switch s {
	case GameLoad:
		return "Load"
	case GameMenu:
		return "Menu"
	case GameStart:
		return "Start"
	case GameInGame:
		return "InGame"
	case GameInMenu:
		return "InMenu"
	case GameInPause:
		return "InPause"
	case GameEnd:
		return "End"
	case GameUnload:
		return "Unload"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

// SessionPhase tracks save-load/session boundaries, independent of the
// coarser [GameState]. On [SessionBeforeStart] the engine pauses and drains
// all live handles; on [SessionReady] it resumes.
type SessionPhase int

const (
	SessionBeforeStart SessionPhase = iota
	SessionStart
	SessionReady
	SessionPause
	SessionResume
	SessionBeforeEnd
	SessionEnd
)

func (s SessionPhase) String() string {
	switch s {
	case SessionBeforeStart:
		return "BeforeStart"
	case SessionStart:
		return "Start"
	case SessionReady:
		return "Ready"
	case SessionPause:
		return "Pause"
	case SessionResume:
		return "Resume"
	case SessionBeforeEnd:
		return "BeforeEnd"
	case SessionEnd:
		return "End"
	default:
		return fmt.Sprintf("SessionPhase(%d)", int(s))
	}
}

// SystemPhase reports plugin attach/detach boundaries, distinct from
// Session/GameState: the plugin system itself attaching to the host, and the
// player entity specifically attaching/detaching from the world.
type SystemPhase int

const (
	SystemAttach SystemPhase = iota
	SystemDetach
	SystemPlayerAttach
	SystemPlayerDetach
)

func (s SystemPhase) String() string {
	switch s {
	case SystemAttach:
		return "Attach"
	case SystemDetach:
		return "Detach"
	case SystemPlayerAttach:
		return "PlayerAttach"
	case SystemPlayerDetach:
		return "PlayerDetach"
	default:
		return fmt.Sprintf("SystemPhase(%d)", int(s))
	}
}

// EntityStatus reports whether a scene-tracked entity is currently attached
// to the world. When not Attached, the spatial scene treats the entity's
// position as the origin and orientation as identity.
type EntityStatus int

const (
	EntityAttached EntityStatus = iota
	EntityDetached
)
