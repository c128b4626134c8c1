package transcode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis files via jfreymuth/oggvorbis
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.Reader) (*AudioData, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ogg vorbis stream: %w", err)
	}

	pcm := make([]float64, len(data))
	for i, v := range data {
		pcm[i] = float64(v)
	}

	return newAudioData(pcm, format.SampleRate, format.Channels), nil
}
