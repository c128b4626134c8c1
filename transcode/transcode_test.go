package transcode

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAVFile encodes mono float samples as a 16-bit PCM WAV file.
func writeWAVFile(t *testing.T, path string, samples []float64, sampleRate int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating wav file: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Round(v * 32767.0))
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing wav encoder: %v", err)
	}
}

func TestDecodeFile_WAVRoundTrip(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000

	samples := make([]float64, 800)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAVFile(t, path, samples, sampleRate)

	audioData, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}

	if audioData.SampleRate != sampleRate {
		t.Errorf("SampleRate = %d, want %d", audioData.SampleRate, sampleRate)
	}
	if audioData.Channels != 1 {
		t.Errorf("Channels = %d, want 1", audioData.Channels)
	}
	if audioData.Frames() != len(samples) {
		t.Fatalf("Frames() = %d, want %d", audioData.Frames(), len(samples))
	}

	wantDuration := time.Duration(len(samples)) * time.Second / sampleRate
	if audioData.Duration != wantDuration {
		t.Errorf("Duration = %v, want %v", audioData.Duration, wantDuration)
	}

	// The encoder scales by 32767 and the decoder divides by 32768, so the
	// round-trip error can reach two quantization steps.
	for i := range samples {
		if math.Abs(audioData.PCM[i]-samples[i]) > 2.0/32768.0 {
			t.Fatalf("PCM[%d] = %v, want %v", i, audioData.PCM[i], samples[i])
		}
	}
}

// 8-bit WAV stores unsigned samples, so 128 is silence and 0 is full
// negative deflection.
func TestDecodeFile_WAV8BitUnsigned(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000

	path := filepath.Join(t.TempDir(), "coarse.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating wav file: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 8, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           []int{0, 64, 128, 192, 255},
		SourceBitDepth: 8,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing wav encoder: %v", err)
	}

	audioData, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}

	want := []float64{-1.0, -0.5, 0.0, 0.5, 127.0 / 128.0}
	if audioData.Frames() != len(want) {
		t.Fatalf("Frames() = %d, want %d", audioData.Frames(), len(want))
	}
	for i := range want {
		if math.Abs(audioData.PCM[i]-want[i]) > 1e-12 {
			t.Errorf("PCM[%d] = %v, want %v", i, audioData.PCM[i], want[i])
		}
	}
}

func TestDecodeFile_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := DecodeFile(path); err == nil {
		t.Error("DecodeFile() with unknown extension should fail")
	}
}

func TestDecodeFile_CorruptWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFFgarbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := DecodeFile(path); err == nil {
		t.Error("DecodeFile() with corrupt file should fail")
	}
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	if _, ok := DefaultRegistry().Lookup(".WAV"); !ok {
		t.Error("Lookup(\".WAV\") should find the wav decoder")
	}
}

func TestToMono_Stereo(t *testing.T) {
	t.Parallel()

	// Interleaved L/R pairs
	stereo := newAudioData([]float64{0.4, 0.6, -0.2, 0.2, 1.0, 0.0}, 8000, 2)

	mono := ToMono(stereo)

	if mono.Channels != 1 {
		t.Fatalf("Channels = %d, want 1", mono.Channels)
	}

	want := []float64{0.5, 0.0, 0.5}
	if len(mono.PCM) != len(want) {
		t.Fatalf("len(PCM) = %d, want %d", len(mono.PCM), len(want))
	}
	for i := range want {
		if math.Abs(mono.PCM[i]-want[i]) > 1e-12 {
			t.Errorf("PCM[%d] = %v, want %v", i, mono.PCM[i], want[i])
		}
	}
}

func TestToMono_MonoPassthrough(t *testing.T) {
	t.Parallel()

	in := newAudioData([]float64{0.1, 0.2}, 8000, 1)
	if out := ToMono(in); out != in {
		t.Error("ToMono() on mono input should return the same AudioData")
	}
}

func TestResample_SameRatePassthrough(t *testing.T) {
	t.Parallel()

	in := newAudioData([]float64{0.1, 0.2}, 22050, 1)
	if out := Resample(in, 22050); out != in {
		t.Error("Resample() at the source rate should return the same AudioData")
	}
}

func TestResample_ConstantSignal(t *testing.T) {
	t.Parallel()

	in := make([]float64, 4410)
	for i := range in {
		in[i] = 0.5
	}

	out := Resample(newAudioData(in, 44100, 1), 22050)

	if out.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", out.SampleRate)
	}
	if out.Frames() != len(in)/2 {
		t.Errorf("Frames() = %d, want %d", out.Frames(), len(in)/2)
	}

	// A constant signal is a fixed point of both the low-pass and the spline
	for i, v := range out.PCM {
		if math.Abs(v-0.5) > 1e-9 {
			t.Fatalf("PCM[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestResample_Upsample(t *testing.T) {
	t.Parallel()

	in := make([]float64, 1000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 100 * float64(i) / 11025)
	}

	out := Resample(newAudioData(in, 11025, 1), 22050)

	if out.Frames() != 2000 {
		t.Errorf("Frames() = %d, want 2000", out.Frames())
	}

	// Spot-check against the analytic signal away from the edges
	for i := 100; i < 1900; i += 37 {
		want := math.Sin(2 * math.Pi * 100 * float64(i) / 22050)
		if math.Abs(out.PCM[i]-want) > 0.01 {
			t.Fatalf("PCM[%d] = %v, want %v", i, out.PCM[i], want)
		}
	}
}
