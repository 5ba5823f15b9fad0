package mixer

// Graph wires together the fixed set of buses every engine instance boots
// with: a shared reverb/ambience pair, the V sub-graph (main/vocal/mental/
// emissive) carrying player-originated audio, holocall (phone-call audio
// routed through the phone EQ preset, with a 0.15 send to ambience), and the
// vanilla-equivalent buses (sfx, radioport, music, dialogue, car_radio)
// that route straight to output.
type Graph struct {
	Reverb    *Track
	Ambience  *Track
	V         *Track
	Vocal     *Track
	Mental    *Track
	Emissive  *Track
	Holocall  *Track
	SFX       *Track
	Radioport *Track
	Music     *Track
	Dialogue  *Track
	CarRadio  *Track

	sampleRate int
}

// NewGraph builds the fixed track topology for PCM at sampleRate. output is
// the host-provided callback every root-reachable bus eventually drains
// into; the caller is responsible for mixing each bus's independent stream
// (this engine does not itself sum buses into one signal — the host owns
// final output mixing, as with the original vanilla/audioware split tracks).
func NewGraph(sampleRate int, output func(bus Name, pcm []byte)) *Graph {
	g := &Graph{sampleRate: sampleRate}

	g.Reverb = NewTrack(NameReverb, sampleRate)
	g.Reverb.SetOutput(func(pcm []byte) { output(NameReverb, pcm) })

	g.Ambience = NewTrack(NameAmbience, sampleRate)
	g.Ambience.SetOutput(func(pcm []byte) { output(NameAmbience, pcm) })

	g.V = NewTrack(NameV, sampleRate)
	g.V.SetOutput(func(pcm []byte) { output(NameV, pcm) })
	g.V.RouteTo(g.Reverb, 0)

	g.Vocal = NewTrack(NameVocal, sampleRate)
	g.Vocal.RouteTo(g.V, 1)
	g.Mental = NewTrack(NameMental, sampleRate)
	g.Mental.RouteTo(g.V, 1)
	g.Emissive = NewTrack(NameEmissive, sampleRate)
	g.Emissive.RouteTo(g.V, 1)

	g.Holocall = NewTrack(NameHolocall, sampleRate)
	g.Holocall.SetOutput(func(pcm []byte) { output(NameHolocall, pcm) })
	g.Holocall.RouteTo(g.Ambience, 0.15)
	g.Holocall.EQ.SetPreset(PresetOnThePhone)

	g.SFX = rootTrack(NameSFX, sampleRate, output)
	g.Radioport = rootTrack(NameRadioport, sampleRate, output)
	g.Music = rootTrack(NameMusic, sampleRate, output)
	g.Dialogue = rootTrack(NameDialogue, sampleRate, output)
	g.CarRadio = rootTrack(NameCarRadio, sampleRate, output)

	return g
}

func rootTrack(name Name, sampleRate int, output func(bus Name, pcm []byte)) *Track {
	t := NewTrack(name, sampleRate)
	t.SetOutput(func(pcm []byte) { output(name, pcm) })
	return t
}

// ByName returns the track registered under name, or nil if name is not one
// of the fixed buses.
func (g *Graph) ByName(name Name) *Track {
	switch name {
	case NameReverb:
		return g.Reverb
	case NameAmbience:
		return g.Ambience
	case NameV:
		return g.V
	case NameVocal:
		return g.Vocal
	case NameMental:
		return g.Mental
	case NameEmissive:
		return g.Emissive
	case NameHolocall:
		return g.Holocall
	case NameSFX:
		return g.SFX
	case NameRadioport:
		return g.Radioport
	case NameMusic:
		return g.Music
	case NameDialogue:
		return g.Dialogue
	case NameCarRadio:
		return g.CarRadio
	default:
		return nil
	}
}

// SetPreset applies an EQ preset to the V and Holocall buses — the two
// buses a script-facing preset change is scoped to; every other bus keeps
// its own EQ untouched.
func (g *Graph) SetPreset(preset Preset) {
	g.V.EQ.SetPreset(preset)
	g.Holocall.EQ.SetPreset(preset)
}
