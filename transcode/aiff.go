package transcode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

// AIFFDecoder decodes AIFF files via go-audio/aiff
type AIFFDecoder struct{}

func (AIFFDecoder) Decode(r io.Reader) (*AudioData, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid aiff file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading aiff pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("aiff file has no format information")
	}

	pcm := intPCMToFloat64(buf.Data, int(dec.BitDepth))

	return newAudioData(pcm, buf.Format.SampleRate, buf.Format.NumChannels), nil
}
