package mixer

import "sync"

// Name identifies one fixed bus in the [Graph]. Unlike bank/scene keys,
// track names are a closed set — the graph topology never changes at
// runtime, only the sends and volumes attached to it.
type Name string

const (
	NameReverb    Name = "reverb"
	NameAmbience  Name = "ambience"
	NameV         Name = "v"
	NameVocal     Name = "v.vocal"
	NameMental    Name = "v.mental"
	NameEmissive  Name = "v.emissive"
	NameHolocall  Name = "holocall"
	NameSFX       Name = "sfx"
	NameRadioport Name = "radioport"
	NameMusic     Name = "music"
	NameDialogue  Name = "dialogue"
	NameCarRadio  Name = "car_radio"
)

// send is one routed amount from a track to a destination bus, mirroring
// the original engine's TrackRoutes: amounts are linear 0..1 gains applied
// before summing into the destination.
type send struct {
	to     *Track
	amount float64
}

// Track is one node in the mixer graph: a volume modulator, an optional EQ,
// and zero or more sends to other tracks. A track with an output set (see
// [Track.SetOutput]) also writes directly to the host output callback.
type Track struct {
	mu     sync.Mutex
	Name   Name
	Volume *VolumeModulator
	EQ     *EQ
	sends  []send
	output func([]byte) // host output callback; nil for tracks that only send
}

// NewTrack returns a track with full volume and a bypassed EQ.
func NewTrack(name Name, sampleRate int) *Track {
	return &Track{Name: name, Volume: NewVolumeModulator(), EQ: NewEQ(sampleRate)}
}

// RouteTo adds a send from t to dest with the given linear amount. Per the
// original graph's comment on Holocall's routing, sends into a shared bus
// should sum to 1.0 or the mixed signal will noticeably crackle.
func (t *Track) RouteTo(dest *Track, amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sends = append(t.sends, send{to: dest, amount: amount})
}

// SetOutput sets the host playback callback t writes each processed buffer
// to, in addition to any sends.
func (t *Track) SetOutput(output func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.output = output
}

// Submit pushes one interleaved int16 PCM buffer into the track: applies
// the track's EQ and volume, then fans out to every send (and the root
// output, if set). The buffer is not mutated in place for sends so that
// concurrent sends to different destinations don't race on the same bytes.
func (t *Track) Submit(pcm []byte) {
	processed := make([]byte, len(pcm))
	copy(processed, pcm)

	t.EQ.Process(processed)
	applyGain(processed, t.Volume.Amplitude())

	t.mu.Lock()
	sends := append([]send(nil), t.sends...)
	output := t.output
	t.mu.Unlock()

	if output != nil {
		output(processed)
	}
	for _, s := range sends {
		routed := make([]byte, len(processed))
		copy(routed, processed)
		applyGain(routed, s.amount)
		s.to.Submit(routed)
	}
}

// applyGain scales an interleaved int16 PCM buffer in place by a linear
// amplitude factor.
func applyGain(pcm []byte, amplitude float64) {
	if amplitude == 1 {
		return
	}
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		scaled := clampSample(float64(sample) * amplitude)
		out := int16(scaled)
		pcm[i] = byte(out)
		pcm[i+1] = byte(out >> 8)
	}
}
