// Package bank implements the audio registry: it consumes parsed manifests
// and produces a conflict-checked identity pool plus the decoded/streamed
// audio data and settings addressed by that pool.
package bank

import (
	"fmt"

	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// KeyKind distinguishes the four dispatch shapes a [Key] can take.
type KeyKind int

const (
	// KindUnique is keyed on event name only (sfx/music).
	KindUnique KeyKind = iota
	// KindGender is gender-specialized (onos).
	KindGender
	// KindLocale is locale-specialized (narration).
	KindLocale
	// KindBoth is both locale- and gender-specialized (player VO).
	KindBoth
)

func (k KeyKind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindGender:
		return "gender"
	case KindLocale:
		return "locale"
	case KindBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Key is an audio identity's dispatch key. Which of Locale/Gender are
// meaningful depends on Kind: a [KindUnique] key ignores both, [KindGender]
// only Gender, [KindLocale] only Locale, [KindBoth] uses both. Key is
// comparable and safe to use as a map key.
type Key struct {
	Kind   KeyKind
	Name   string
	Locale audio.Locale
	Gender audio.Gender
}

// NewUniqueKey builds a [KindUnique] key.
func NewUniqueKey(name string) Key {
	return Key{Kind: KindUnique, Name: name}
}

// NewGenderKey builds a [KindGender] key.
func NewGenderKey(name string, gender audio.Gender) Key {
	return Key{Kind: KindGender, Name: name, Gender: gender}
}

// NewLocaleKey builds a [KindLocale] key.
func NewLocaleKey(name string, locale audio.Locale) Key {
	return Key{Kind: KindLocale, Name: name, Locale: locale}
}

// NewBothKey builds a [KindBoth] key.
func NewBothKey(name string, locale audio.Locale, gender audio.Gender) Key {
	return Key{Kind: KindBoth, Name: name, Locale: locale, Gender: gender}
}

// String renders the key for logs, e.g. "both:greeting_01[fr-fr:Female]".
func (k Key) String() string {
	switch k.Kind {
	case KindUnique:
		return fmt.Sprintf("unique:%s", k.Name)
	case KindGender:
		return fmt.Sprintf("gender:%s[%s]", k.Name, k.Gender)
	case KindLocale:
		return fmt.Sprintf("locale:%s[%s]", k.Name, k.Locale)
	case KindBoth:
		return fmt.Sprintf("both:%s[%s:%s]", k.Name, k.Locale, k.Gender)
	default:
		return fmt.Sprintf("unknown:%s", k.Name)
	}
}

// Matches reports whether this key resolves for an event lookup of name at
// the given spoken locale, with gender optionally known. A [KindUnique] key
// matches any locale/gender. A [KindLocale] key ignores gender entirely —
// it matches whenever gender is unknown, or known but irrelevant to it.
func (k Key) Matches(name string, locale audio.Locale, gender audio.Gender, genderKnown bool) bool {
	if k.Name != name {
		return false
	}
	switch k.Kind {
	case KindUnique:
		return true
	case KindGender:
		return genderKnown && k.Gender == gender
	case KindLocale:
		return k.Locale == locale
	case KindBoth:
		return genderKnown && k.Locale == locale && k.Gender == gender
	default:
		return false
	}
}
