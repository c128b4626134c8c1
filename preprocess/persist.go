package preprocess

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/audioforge/specprep/logging"
	"github.com/audioforge/specprep/npy"
)

// Artifact filenames written by Save.
const (
	SignalsFile      = "signals.npy"
	SpectrogramsFile = "spectrograms.npy"
	MinMaxFile       = "original_min_max.npy"
)

// Save creates dir and writes whichever artifacts exist: the signal batch,
// the spectrogram batch, and the recorded min/max pairs. The directory must
// not already exist; if creation fails nothing is written.
func (p *Preprocessor) Save(dir string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "preprocess",
		"function":  "Save",
		"dir":       dir,
	})

	if err := os.Mkdir(dir, 0o755); err != nil {
		logger.Error(err, "Failed to create output directory")
		return fmt.Errorf("creating output dir: %w", err)
	}

	if p.Signals != nil {
		if err := p.saveSignals(filepath.Join(dir, SignalsFile)); err != nil {
			return err
		}
	}

	if p.Spectrograms != nil {
		if err := p.saveSpectrograms(filepath.Join(dir, SpectrogramsFile)); err != nil {
			return err
		}
	}

	if p.OriginalMinMax != nil {
		if err := p.saveMinMax(filepath.Join(dir, MinMaxFile)); err != nil {
			return err
		}
	}

	logger.Debug("Artifacts saved", logging.Fields{
		"signals":      len(p.Signals),
		"spectrograms": len(p.Spectrograms),
		"min_max":      len(p.OriginalMinMax),
	})

	return nil
}

// saveSignals writes the signal batch as a (N, signalLength) matrix.
// The batch must be rectangular, which Pad guarantees.
func (p *Preprocessor) saveSignals(path string) error {
	n := len(p.Signals)
	if n == 0 {
		return writeNpyFile(path, []int{0, 0}, nil)
	}

	width := len(p.Signals[0])
	flat := make([]float64, 0, n*width)
	for i, signal := range p.Signals {
		if len(signal) != width {
			return fmt.Errorf("signal %d has %d samples, want %d: run Pad before Save", i, len(signal), width)
		}
		flat = append(flat, signal...)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := npyio.Write(f, mat.NewDense(n, width, flat)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}

// saveSpectrograms writes the spectrogram batch as a rank-3 array of shape
// (N, bins, frames). npyio stops at rank 2, so this goes through the npy
// package directly.
func (p *Preprocessor) saveSpectrograms(path string) error {
	n := len(p.Spectrograms)
	if n == 0 {
		return writeNpyFile(path, []int{0, 0, 0}, nil)
	}

	bins := len(p.Spectrograms[0])
	frames := 0
	if bins > 0 {
		frames = len(p.Spectrograms[0][0])
	}

	flat := make([]float64, 0, n*bins*frames)
	for i, spectrogram := range p.Spectrograms {
		if len(spectrogram) != bins {
			return fmt.Errorf("spectrogram %d has %d bins, want %d", i, len(spectrogram), bins)
		}
		for _, row := range spectrogram {
			if len(row) != frames {
				return fmt.Errorf("spectrogram %d has ragged frames", i)
			}
			flat = append(flat, row...)
		}
	}

	return writeNpyFile(path, []int{n, bins, frames}, flat)
}

// saveMinMax writes the recorded ranges as a (N, 2) matrix of (min, max) rows.
func (p *Preprocessor) saveMinMax(path string) error {
	n := len(p.OriginalMinMax)
	if n == 0 {
		return writeNpyFile(path, []int{0, 2}, nil)
	}

	flat := make([]float64, 0, n*2)
	for _, r := range p.OriginalMinMax {
		flat = append(flat, r.Min, r.Max)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := npyio.Write(f, mat.NewDense(n, 2, flat)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}

func writeNpyFile(path string, shape []int, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := npy.Write(f, shape, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
