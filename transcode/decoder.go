package transcode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/audioforge/specprep/logging"
)

// AudioData represents fully decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Interleaved PCM samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// Frames returns the number of sample frames (samples per channel).
func (a *AudioData) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.PCM) / a.Channels
}

// Decoder constructs AudioData from an input reader holding a complete file.
type Decoder interface {
	Decode(r io.Reader) (*AudioData, error)
}

// Registry maps file extensions (".wav", ".mp3", ...) to decoders.
type Registry struct {
	codecs map[string]Decoder
	mtx    sync.Mutex
}

// NewRegistry creates an empty decoder registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

// Register adds a decoder for an extension, replacing any previous one
func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(ext)] = d
}

// Lookup returns the decoder registered for ext
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(".wav", WAVDecoder{})
	r.Register(".aiff", AIFFDecoder{})
	r.Register(".aif", AIFFDecoder{})
	r.Register(".mp3", MP3Decoder{})
	r.Register(".ogg", VorbisDecoder{})
	r.Register(".oga", VorbisDecoder{})
	return r
}()

// DefaultRegistry returns the registry holding the built-in format decoders
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// DecodeFile decodes an audio file, choosing the decoder by file extension.
func DecodeFile(path string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "transcode",
		"function":  "DecodeFile",
		"path":      path,
	})

	ext := filepath.Ext(path)
	dec, ok := defaultRegistry.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("no decoder registered for %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	audioData, err := dec.Decode(f)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"sample_rate": audioData.SampleRate,
		"channels":    audioData.Channels,
		"frames":      audioData.Frames(),
		"duration":    audioData.Duration.Seconds(),
	})

	return audioData, nil
}

// newAudioData builds an AudioData and derives its duration.
func newAudioData(pcm []float64, sampleRate, channels int) *AudioData {
	a := &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
	}
	if sampleRate > 0 && channels > 0 {
		a.Duration = time.Duration(a.Frames()) * time.Second / time.Duration(sampleRate)
	}
	return a
}
