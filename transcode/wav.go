package transcode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// WAVDecoder decodes RIFF/WAVE files via go-audio/wav
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.Reader) (*AudioData, error) {
	// go-audio requires an io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading wav pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("wav file has no format information")
	}

	// 8-bit WAV PCM is unsigned (0..255); deeper WAV and all AIFF
	// depths are signed.
	var pcm []float64
	if dec.BitDepth == 8 {
		pcm = make([]float64, len(buf.Data))
		for i, v := range buf.Data {
			pcm[i] = (float64(v) - 128.0) / 128.0
		}
	} else {
		pcm = intPCMToFloat64(buf.Data, int(dec.BitDepth))
	}

	return newAudioData(pcm, buf.Format.SampleRate, buf.Format.NumChannels), nil
}

// intPCMToFloat64 scales signed integer PCM to [-1, 1] for the given bit depth.
func intPCMToFloat64(data []int, bitDepth int) []float64 {
	var maxVal float64
	switch bitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = 32768.0
	}

	pcm := make([]float64, len(data))
	for i, v := range data {
		pcm[i] = float64(v) / maxVal
	}
	return pcm
}
