package bank

import "fmt"

// IdKind distinguishes whether an [Id]'s audio is resident in RAM or
// materialized on demand.
type IdKind int

const (
	// KindInMemory means the audio was fully decoded at load time.
	KindInMemory IdKind = iota
	// KindOnDemand means only the path was kept; the file is opened fresh
	// (or streamed in chunks, see [UsageKind]) at play time.
	KindOnDemand
)

// UsageKind distinguishes how an on-demand [Id] is read at play time. Only
// meaningful when Id.Kind == [KindOnDemand].
type UsageKind int

const (
	// UsageStatic reads the whole file fresh on every play.
	UsageStatic UsageKind = iota
	// UsageStreaming reads the file in chunks during playback.
	UsageStreaming
)

func (u UsageKind) String() string {
	if u == UsageStreaming {
		return "streaming"
	}
	return "static"
}

// Source tags which manifest section an [Id] came from.
type Source int

const (
	SourceSFX Source = iota
	SourceOno
	SourceVoice
	SourceMusic
	SourceJingle
	SourcePlaylist
)

func (s Source) String() string {
	switch s {
	case SourceSFX:
		return "sfx"
	case SourceOno:
		return "ono"
	case SourceVoice:
		return "voice"
	case SourceMusic:
		return "music"
	case SourceJingle:
		return "jingle"
	case SourcePlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Id is an opaque audio identity guaranteed to both exist in the registry
// and reference a validated file. Id is comparable and usable as a set
// element (map[Id]struct{}) or map key.
type Id struct {
	Kind   IdKind
	Key    Key
	Usage  UsageKind // meaningful only when Kind == KindOnDemand
	Path   string    // meaningful only when Kind == KindOnDemand
	Source Source
}

// NewInMemoryId builds an [Id] whose audio is fully resident in RAM.
func NewInMemoryId(key Key, source Source) Id {
	return Id{Kind: KindInMemory, Key: key, Source: source}
}

// NewOnDemandId builds an [Id] whose audio is read fresh (or streamed) from
// path at play time.
func NewOnDemandId(usage UsageKind, key Key, path string, source Source) Id {
	return Id{Kind: KindOnDemand, Key: key, Usage: usage, Path: path, Source: source}
}

// Name returns the event name carried by the id's key.
func (id Id) Name() string {
	return id.Key.Name
}

// String renders the id for logs/ReportInitialization-style summaries.
func (id Id) String() string {
	switch id.Kind {
	case KindInMemory:
		return fmt.Sprintf("|in-memory| %s", id.Key)
	case KindOnDemand:
		return fmt.Sprintf("|on-demand| %s:%s (%s)", id.Usage, id.Key, id.Path)
	default:
		return fmt.Sprintf("|unknown| %s", id.Key)
	}
}
