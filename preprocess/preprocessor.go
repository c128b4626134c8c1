// Package preprocess implements an offline preprocessing pipeline for
// directories of audio files: decode and resample, normalize duration,
// extract log-magnitude spectrograms, scale them to the unit range, and
// persist the resulting arrays as .npy files.
//
// Stages run in order on a single Preprocessor instance:
//
//	p := preprocess.New(nil)
//	p.Load(inputDir)
//	p.Pad()
//	p.LogSpectrogram()
//	p.Normalize()
//	p.Save(outputDir)
//
// A failure at any stage leaves the outputs of earlier stages intact and
// later ones absent.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/audioforge/specprep/algorithms/common"
	"github.com/audioforge/specprep/algorithms/spectral"
	"github.com/audioforge/specprep/logging"
	"github.com/audioforge/specprep/transcode"
)

// Config holds the pipeline parameters
type Config struct {
	SampleRate int     `json:"sample_rate"` // Target sample rate in Hz
	Duration   float64 `json:"duration"`    // Target signal duration in seconds
	FrameSize  int     `json:"frame_size"`  // STFT analysis window size
	HopLength  int     `json:"hop_length"`  // STFT hop between frames
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() *Config {
	return &Config{
		SampleRate: 22050,
		Duration:   0.74,
		FrameSize:  512,
		HopLength:  256,
	}
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive: %g", c.Duration)
	}
	if c.FrameSize <= 0 {
		return fmt.Errorf("frame size must be positive: %d", c.FrameSize)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("hop length must be positive: %d", c.HopLength)
	}
	return nil
}

// Preprocessor holds the pipeline state. Each stage populates one field;
// Signals, Filenames, Spectrograms, and OriginalMinMax stay order-parallel.
type Preprocessor struct {
	cfg *Config

	Signals        [][]float64     // One waveform per loaded file
	Filenames      []string        // Source filename per waveform
	Spectrograms   [][][]float64   // Per waveform: frequency bins x time frames
	OriginalMinMax []common.MinMax // Pre-normalization range per spectrogram

	signalLength int // Uniform sample count set by Pad
}

// New creates a Preprocessor. A nil config selects DefaultConfig.
func New(cfg *Config) *Preprocessor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Preprocessor{cfg: cfg}
}

// Config returns the pipeline configuration
func (p *Preprocessor) Config() *Config {
	return p.cfg
}

// SignalLength returns the uniform sample count established by Pad,
// or 0 if Pad has not run.
func (p *Preprocessor) SignalLength() int {
	return p.signalLength
}

// Load decodes every non-hidden file in dir into a mono waveform at the
// configured sample rate, in lexical directory order. Any decode failure
// aborts the load and leaves the preprocessor unchanged.
func (p *Preprocessor) Load(dir string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "preprocess",
		"function":  "Load",
		"dir":       dir,
	})

	if err := p.cfg.Validate(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error(err, "Failed to read input directory")
		return fmt.Errorf("reading input dir: %w", err)
	}

	signals := make([][]float64, 0, len(entries))
	filenames := make([]string, 0, len(entries))

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		audioData, err := transcode.DecodeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}

		audioData = transcode.ToMono(audioData)
		audioData = transcode.Resample(audioData, p.cfg.SampleRate)

		signals = append(signals, audioData.PCM)
		filenames = append(filenames, entry.Name())
	}

	p.Signals = signals
	p.Filenames = filenames

	logger.Debug("Signals loaded", logging.Fields{
		"count":       len(signals),
		"sample_rate": p.cfg.SampleRate,
	})

	return nil
}

// Pad trims or left-pads every signal to the configured duration. Shorter
// signals keep their samples as the rightmost portion behind prepended
// zeros; longer signals keep only their first floor(duration*rate) samples.
func (p *Preprocessor) Pad() error {
	if p.Signals == nil {
		return fmt.Errorf("no signals loaded")
	}

	targetLen := int(p.cfg.Duration * float64(p.cfg.SampleRate))

	padded := make([][]float64, len(p.Signals))
	for i, signal := range p.Signals {
		out := make([]float64, targetLen)
		if len(signal) < targetLen {
			copy(out[targetLen-len(signal):], signal)
		} else {
			copy(out, signal[:targetLen])
		}
		padded[i] = out
	}

	p.Signals = padded
	p.signalLength = targetLen

	logging.Debug("Signals padded", logging.Fields{
		"component":     "preprocess",
		"signal_length": targetLen,
		"count":         len(padded),
	})

	return nil
}

// LogSpectrogram computes a decibel-scale magnitude spectrogram per signal
// with the configured frame size and hop length. The Nyquist bin is
// dropped, so each spectrogram has FrameSize/2 frequency bins.
func (p *Preprocessor) LogSpectrogram() error {
	if p.Signals == nil {
		return fmt.Errorf("no signals loaded")
	}

	spectrograms := make([][][]float64, len(p.Signals))
	for i, signal := range p.Signals {
		spectrogram, err := spectral.LogSpectrogram(signal, p.cfg.FrameSize, p.cfg.HopLength)
		if err != nil {
			return fmt.Errorf("spectrogram for signal %d: %w", i, err)
		}
		spectrograms[i] = spectrogram
	}

	p.Spectrograms = spectrograms

	logging.Debug("Spectrograms extracted", logging.Fields{
		"component":  "preprocess",
		"count":      len(spectrograms),
		"frame_size": p.cfg.FrameSize,
		"hop_length": p.cfg.HopLength,
	})

	return nil
}

// Normalize rescales each spectrogram independently to the [0, 1] range and
// records its original (min, max) pair so a consumer can invert the scaling.
func (p *Preprocessor) Normalize() error {
	if p.Spectrograms == nil {
		return fmt.Errorf("no spectrograms extracted")
	}

	ranges := make([]common.MinMax, len(p.Spectrograms))
	for i, spectrogram := range p.Spectrograms {
		ranges[i] = common.ScaleToUnit(spectrogram)
	}

	p.OriginalMinMax = ranges

	logging.Debug("Spectrograms normalized", logging.Fields{
		"component": "preprocess",
		"count":     len(ranges),
	})

	return nil
}
