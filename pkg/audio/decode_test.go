package audio_test

import (
	"bytes"
	"testing"

	"github.com/silverlode-studios/soundrig/pkg/audio"
)

func TestDecode_PassThroughForNonOpus(t *testing.T) {
	t.Parallel()
	raw := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	pcm, format, err := audio.Decode("door.wav", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pcm, raw) {
		t.Errorf("pcm = %v, want unchanged %v", pcm, raw)
	}
	if format.SampleRate == 0 || format.Channels == 0 {
		t.Errorf("expected a populated format, got %+v", format)
	}
}

func TestDecode_PassThroughIsCaseInsensitiveOnExtension(t *testing.T) {
	t.Parallel()
	raw := []byte{0xAA, 0xBB}

	pcm, _, err := audio.Decode("music/theme.WAV", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(pcm, raw) {
		t.Error("expected raw bytes unchanged for uppercase extension")
	}
}

func TestDecode_EmptyOpusPayloadYieldsNoSamples(t *testing.T) {
	t.Parallel()
	pcm, format, err := audio.Decode("empty.opus", []byte{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pcm) != 0 {
		t.Errorf("expected no decoded samples from empty input, got %d bytes", len(pcm))
	}
	if format.SampleRate != 48000 || format.Channels != 2 {
		t.Errorf("format = %+v, want 48000/2", format)
	}
}

func TestDecode_TruncatedOpusFrameStopsCleanly(t *testing.T) {
	t.Parallel()
	// A length prefix claiming more bytes than actually follow must not
	// panic or error — the decoder stops at the truncated frame.
	truncated := []byte{0xFF, 0x00, 0x00, 0x00, 0x01, 0x02}
	pcm, _, err := audio.Decode("broken.opus", truncated)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pcm) != 0 {
		t.Errorf("expected no output for a truncated first frame, got %d bytes", len(pcm))
	}
}
