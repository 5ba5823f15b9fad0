package manifest

import (
	"fmt"
	"time"

	"github.com/silverlode-studios/soundrig/pkg/audio"
	"gopkg.in/yaml.v3"
)

// Region restricts playback to a sub-range of the source audio.
type Region struct {
	Starts *time.Duration
	Ends   *time.Duration
}

func (r *Region) UnmarshalYAML(node *yaml.Node) error {
	var aux struct {
		Starts string `yaml:"starts"`
		Ends   string `yaml:"ends"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("region: %w", err)
	}
	if aux.Starts != "" {
		d, err := time.ParseDuration(aux.Starts)
		if err != nil {
			return fmt.Errorf("region.starts %q: %w", aux.Starts, err)
		}
		r.Starts = &d
	}
	if aux.Ends != "" {
		d, err := time.ParseDuration(aux.Ends)
		if err != nil {
			return fmt.Errorf("region.ends %q: %w", aux.Ends, err)
		}
		r.Ends = &d
	}
	return nil
}

// easingSpec decodes the modder-facing easing shapes: a bare "Linear" string,
// or a single-key mapping like "InPowf: 0.5".
type easingSpec struct {
	Kind  audio.EasingKind
	Value float64
}

func (e *easingSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		kind, err := parseEasingKind(node.Value)
		if err != nil {
			return err
		}
		e.Kind = kind
		return nil
	}
	var m map[string]float64
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("easing: %w", err)
	}
	for k, v := range m {
		kind, err := parseEasingKind(k)
		if err != nil {
			return err
		}
		e.Kind = kind
		e.Value = v
		return nil
	}
	return fmt.Errorf("easing: empty mapping")
}

func parseEasingKind(name string) (audio.EasingKind, error) {
	switch name {
	case "Linear":
		return audio.Linear, nil
	case "InPowf":
		return audio.InPowf, nil
	case "OutPowf":
		return audio.OutPowf, nil
	case "InOutPowf":
		return audio.InOutPowf, nil
	default:
		return 0, fmt.Errorf("easing: unknown kind %q", name)
	}
}

// interpolation is the modder-facing tween shape: an optional start delay, a
// required duration, and an easing curve.
type interpolation struct {
	StartTime *time.Duration
	Duration  time.Duration
	Easing    easingSpec
}

func (i *interpolation) UnmarshalYAML(node *yaml.Node) error {
	var aux struct {
		StartTime string     `yaml:"start_time"`
		Duration  string     `yaml:"duration"`
		Easing    easingSpec `yaml:"easing"`
	}
	if err := node.Decode(&aux); err != nil {
		return fmt.Errorf("tween: %w", err)
	}
	if aux.StartTime != "" {
		d, err := time.ParseDuration(aux.StartTime)
		if err != nil {
			return fmt.Errorf("tween.start_time %q: %w", aux.StartTime, err)
		}
		i.StartTime = &d
	}
	if aux.Duration != "" {
		d, err := time.ParseDuration(aux.Duration)
		if err != nil {
			return fmt.Errorf("tween.duration %q: %w", aux.Duration, err)
		}
		i.Duration = d
	}
	i.Easing = aux.Easing
	return nil
}

func (i interpolation) toTween() audio.Tween {
	t := audio.Tween{
		Duration: i.Duration,
		Easing:   audio.Easing{Kind: i.Easing.Kind, Value: i.Easing.Value},
	}
	if i.StartTime != nil {
		t.StartDelay = *i.StartTime
	}
	return t.Sanitize()
}

// Settings is the per-entry playback configuration modders may declare
// inline or inherit from an enclosing scope.
type Settings struct {
	StartTime              *time.Duration
	StartPosition          *time.Duration
	Volume                 *float64
	Panning                *float64
	PlaybackRate           *float64
	Region                 *Region
	Loop                   *bool
	FadeInTween            *audio.Tween
	AffectedByTimeDilation *bool
}

type rawSettings struct {
	StartTime              string         `yaml:"start_time"`
	StartPosition          string         `yaml:"start_position"`
	Volume                 *float64       `yaml:"volume"`
	Panning                *float64       `yaml:"panning"`
	PlaybackRate           *float64       `yaml:"playback_rate"`
	Region                 *Region        `yaml:"region"`
	Loop                   *bool          `yaml:"loop"`
	FadeInTween            *interpolation `yaml:"fade_in_tween"`
	AffectedByTimeDilation *bool          `yaml:"affected_by_time_dilation"`
}

func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	var raw rawSettings
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if raw.StartTime != "" {
		d, err := time.ParseDuration(raw.StartTime)
		if err != nil {
			return fmt.Errorf("settings.start_time %q: %w", raw.StartTime, err)
		}
		s.StartTime = &d
	}
	if raw.StartPosition != "" {
		d, err := time.ParseDuration(raw.StartPosition)
		if err != nil {
			return fmt.Errorf("settings.start_position %q: %w", raw.StartPosition, err)
		}
		s.StartPosition = &d
	}
	s.Volume = raw.Volume
	s.Panning = raw.Panning
	s.PlaybackRate = raw.PlaybackRate
	s.Region = raw.Region
	s.Loop = raw.Loop
	s.AffectedByTimeDilation = raw.AffectedByTimeDilation
	if raw.FadeInTween != nil {
		t := raw.FadeInTween.toTween()
		s.FadeInTween = &t
	}
	return nil
}

// MergeInto fills every unset (nil) field of child from parent, field by
// field — an inner "None" inherits the outer value, an inner "Some"
// overrides. parent is untouched; a new merged Settings is returned, except
// that a nil parent returns child itself. A nil child is treated as entirely
// unset.
func MergeInto(child, parent *Settings) *Settings {
	if parent == nil {
		return child
	}
	merged := Settings{}
	if child != nil {
		merged = *child
	}
	if merged.StartTime == nil {
		merged.StartTime = parent.StartTime
	}
	if merged.StartPosition == nil {
		merged.StartPosition = parent.StartPosition
	}
	if merged.Volume == nil {
		merged.Volume = parent.Volume
	}
	if merged.Panning == nil {
		merged.Panning = parent.Panning
	}
	if merged.PlaybackRate == nil {
		merged.PlaybackRate = parent.PlaybackRate
	}
	if merged.Region == nil {
		merged.Region = parent.Region
	}
	if merged.Loop == nil {
		merged.Loop = parent.Loop
	}
	if merged.FadeInTween == nil {
		merged.FadeInTween = parent.FadeInTween
	}
	if merged.AffectedByTimeDilation == nil {
		merged.AffectedByTimeDilation = parent.AffectedByTimeDilation
	}
	return &merged
}
