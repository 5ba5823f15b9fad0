package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"layeh.com/gopus"
)

// decodeSampleRate and decodeChannels describe the format produced by
// [Decode] for Opus sources — 48 kHz stereo, the same configuration the
// original Opus pipeline this decoder is adapted from used.
const (
	decodeSampleRate = 48000
	decodeChannels   = 2
	decodeFrameSize  = decodeSampleRate * 20 / 1000 // 960 samples per 20ms frame
)

// Decode is the black-box boundary between a bank entry's on-disk bytes and
// the PCM format the mixer graph consumes. Files
// with a ".opus" extension are decoded frame-by-frame via an Opus decoder;
// any other extension is treated as already being raw interleaved int16 PCM
// and passed through unchanged — full container parsing for other codecs is
// out of scope (callers needing a different source format resample via
// [FormatConverter] after decode).
func Decode(path string, data []byte) (pcm []byte, format Format, err error) {
	if strings.EqualFold(filepath.Ext(path), ".opus") {
		pcm, err := decodeOpusPackets(data)
		if err != nil {
			return nil, Format{}, fmt.Errorf("audio: decode opus %q: %w", path, err)
		}
		return pcm, Format{SampleRate: decodeSampleRate, Channels: decodeChannels}, nil
	}
	return data, Format{SampleRate: decodeSampleRate, Channels: decodeChannels}, nil
}

// decodeOpusPackets decodes a length-prefixed sequence of Opus packets (a
// uint32 little-endian byte length followed by that many packet bytes,
// repeated) into one interleaved int16 PCM buffer.
func decodeOpusPackets(data []byte) ([]byte, error) {
	dec, err := gopus.NewDecoder(decodeSampleRate, decodeChannels)
	if err != nil {
		return nil, fmt.Errorf("create opus decoder: %w", err)
	}

	var out []byte
	for len(data) > 4 {
		length := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
		data = data[4:]
		if length <= 0 || length > len(data) {
			break
		}
		packet := data[:length]
		data = data[length:]

		samples, err := dec.Decode(packet, decodeFrameSize, false)
		if err != nil {
			return nil, fmt.Errorf("opus decode frame: %w", err)
		}
		out = append(out, int16SamplesToBytes(samples)...)
	}
	return out, nil
}

func int16SamplesToBytes(samples []int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		b[i*2] = byte(s)
		b[i*2+1] = byte(s >> 8)
	}
	return b
}
