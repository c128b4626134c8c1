package transcode

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MPEG audio via hajimehoshi/go-mp3
type MP3Decoder struct{}

func (MP3Decoder) Decode(r io.Reader) (*AudioData, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading mp3 pcm: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo
	samples := len(raw) / 2
	pcm := make([]float64, samples)
	for i := 0; i < samples; i++ {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		pcm[i] = float64(v) / 32768.0
	}

	return newAudioData(pcm, dec.SampleRate(), 2), nil
}
