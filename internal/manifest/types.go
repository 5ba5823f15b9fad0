// Package manifest loads, validates, and merges YAML audio manifests placed
// by mods under the game-mods and plugin depots.
package manifest

import (
	"fmt"

	"github.com/silverlode-studios/soundrig/pkg/audio"
	"gopkg.in/yaml.v3"
)

// Usage selects how an entry's audio is materialized at load/play time.
type Usage int

const (
	// UsageOnDemand keeps only the path; at load the file is checked to
	// exist and its settings are parsed, but no audio data is read.
	UsageOnDemand Usage = iota
	// UsageInMemory fully decodes the audio into RAM at load time.
	UsageInMemory
	// UsageStreaming keeps the path and streams chunks during playback.
	UsageStreaming
)

func (u Usage) String() string {
	switch u {
	case UsageOnDemand:
		return "on-demand"
	case UsageInMemory:
		return "in-memory"
	case UsageStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

func (u *Usage) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("usage: %w", err)
	}
	switch s {
	case "on-demand", "":
		*u = UsageOnDemand
	case "in-memory":
		*u = UsageInMemory
	case "streaming":
		*u = UsageStreaming
	default:
		return fmt.Errorf("usage: unknown value %q", s)
	}
	return nil
}

// LineType tags how a subtitle line is displayed by the host (radio chatter,
// scene dialogue, holocall, …). The host owns rendering; the engine only
// carries the tag through.
type LineType string

// Subtitle is a localized display line paired with a voice/ono entry.
type Subtitle struct {
	Msg  string
	Line LineType
}

func (s *Subtitle) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Msg = node.Value
		return nil
	}
	var aux struct {
		Msg  string `yaml:"msg"`
		Line string `yaml:"line"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("subtitle: %w", err)
	}
	s.Msg = aux.Msg
	s.Line = LineType(aux.Line)
	return nil
}

// AudioEntry is a single audio asset reference: either a bare path or a
// nested block carrying settings/usage/subtitle alongside it.
type AudioEntry struct {
	File     string
	Settings *Settings
	Usage    Usage
	Subtitle *Subtitle
}

func (a *AudioEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.File = node.Value
		return nil
	}
	var aux struct {
		File     string    `yaml:"file"`
		Settings *Settings `yaml:"settings"`
		Usage    Usage     `yaml:"usage"`
		Subtitle *Subtitle `yaml:"subtitle"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("audio entry: %w", err)
	}
	a.File = aux.File
	a.Settings = aux.Settings
	a.Usage = aux.Usage
	a.Subtitle = aux.Subtitle
	return nil
}

// OnoEntry is a gendered one-shot (ono) declaration: separate female/male
// assets sharing one settings/usage/subtitle block.
type OnoEntry struct {
	Fem      *AudioEntry
	Male     *AudioEntry
	Settings *Settings
	Usage    Usage
	Subtitle *Subtitle
}

func (o *OnoEntry) UnmarshalYAML(node *yaml.Node) error {
	var aux struct {
		Fem      *AudioEntry `yaml:"fem"`
		Male     *AudioEntry `yaml:"male"`
		Settings *Settings   `yaml:"settings"`
		Usage    Usage       `yaml:"usage"`
		Subtitle *Subtitle   `yaml:"subtitle"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("ono entry: %w", err)
	}
	*o = OnoEntry(aux)
	return nil
}

// LocaleVariant is one locale's worth of a voice entry: either a single
// ungendered asset, or a gendered pair.
type LocaleVariant struct {
	Single *AudioEntry
	Fem    *AudioEntry
	Male   *AudioEntry
}

func (v *LocaleVariant) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode || hasKey(node, "file") {
		var entry AudioEntry
		if err := node.Decode(&entry); err != nil {
			return fmt.Errorf("locale variant: %w", err)
		}
		v.Single = &entry
		return nil
	}
	var aux struct {
		Fem  *AudioEntry `yaml:"fem"`
		Male *AudioEntry `yaml:"male"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("locale variant: %w", err)
	}
	v.Fem = aux.Fem
	v.Male = aux.Male
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// reservedVoiceKeys are VoiceEntry mapping keys that are not locale codes.
var reservedVoiceKeys = map[string]bool{
	"settings": true,
	"usage":    true,
	"subtitle": true,
}

// VoiceEntry maps spoken-locale codes to [LocaleVariant]s, plus a shared
// settings/usage block and per-locale subtitles.
type VoiceEntry struct {
	Locales   map[audio.Locale]LocaleVariant
	Settings  *Settings
	Usage     Usage
	Subtitles map[audio.Locale]*Subtitle
}

func (v *VoiceEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("voice entry: expected mapping")
	}
	v.Locales = make(map[audio.Locale]LocaleVariant)
	v.Subtitles = make(map[audio.Locale]*Subtitle)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		switch key.Value {
		case "settings":
			var s Settings
			if err := val.Decode(&s); err != nil {
				return fmt.Errorf("voice entry settings: %w", err)
			}
			v.Settings = &s
		case "usage":
			var u Usage
			if err := val.Decode(&u); err != nil {
				return fmt.Errorf("voice entry usage: %w", err)
			}
			v.Usage = u
		case "subtitle":
			var subs map[string]*Subtitle
			if err := val.Decode(&subs); err != nil {
				return fmt.Errorf("voice entry subtitle: %w", err)
			}
			for code, sub := range subs {
				loc, ok := audio.ParseLocale(code)
				if !ok {
					return fmt.Errorf("voice entry subtitle: unknown locale %q", code)
				}
				v.Subtitles[loc] = sub
			}
		default:
			loc, ok := audio.ParseLocale(key.Value)
			if !ok {
				if reservedVoiceKeys[key.Value] {
					continue
				}
				return fmt.Errorf("voice entry: unknown locale %q", key.Value)
			}
			var variant LocaleVariant
			if err := val.Decode(&variant); err != nil {
				return fmt.Errorf("voice entry %s: %w", key.Value, err)
			}
			v.Locales[loc] = variant
		}
	}
	return nil
}

// Manifest is the top-level document parsed from one mod-authored YAML file.
type Manifest struct {
	Version  string                `yaml:"version"`
	SFX      map[string]AudioEntry `yaml:"sfx"`
	Onos     map[string]OnoEntry   `yaml:"onos"`
	Voices   map[string]VoiceEntry `yaml:"voices"`
	Music    map[string]AudioEntry `yaml:"music"`
	Playlist map[string]AudioEntry `yaml:"playlist"`
	Jingles  map[string]AudioEntry `yaml:"jingles"`
}
