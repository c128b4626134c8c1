package spectral

import (
	"github.com/audioforge/specprep/algorithms/windowing"
)

// LogSpectrogram computes a decibel-scale magnitude spectrogram of signal
// with a periodic Hann analysis window. The Nyquist bin is discarded, so
// the result has frameSize/2 rows (frequency bins) and one column per hop.
func LogSpectrogram(signal []float64, frameSize, hopLength int) ([][]float64, error) {
	stft := NewSTFT()
	window := windowing.NewHann(frameSize, false)

	result, err := stft.Compute(signal, frameSize, hopLength, window)
	if err != nil {
		return nil, err
	}

	// Transpose time-major magnitude to bin-major and drop the Nyquist bin,
	// which is redundant for real input.
	bins := result.FreqBins - 1
	spectrogram := make([][]float64, bins)
	for bin := 0; bin < bins; bin++ {
		spectrogram[bin] = make([]float64, result.TimeFrames)
		for frame := 0; frame < result.TimeFrames; frame++ {
			spectrogram[bin][frame] = result.Magnitude[frame][bin]
		}
	}

	return AmplitudeToDB(spectrogram), nil
}
