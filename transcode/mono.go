package transcode

// ToMono mixes interleaved multichannel audio down to mono by averaging
// channels. Mono input is returned unchanged.
func ToMono(a *AudioData) *AudioData {
	if a.Channels <= 1 {
		return a
	}

	frames := a.Frames()
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < a.Channels; c++ {
			sum += a.PCM[i*a.Channels+c]
		}
		mono[i] = sum / float64(a.Channels)
	}

	return newAudioData(mono, a.SampleRate, 1)
}
