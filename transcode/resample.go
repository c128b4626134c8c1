package transcode

// Resample converts audio to the target sample rate using cubic
// (Catmull-Rom) interpolation, preserving the channel count. A one-pole
// low-pass is applied first when downsampling to limit aliasing.
// Input at the target rate is returned unchanged.
func Resample(a *AudioData, dstRate int) *AudioData {
	if a.SampleRate == dstRate || len(a.PCM) == 0 {
		return a
	}

	channels := a.Channels
	srcFrames := a.Frames()
	ratio := float64(a.SampleRate) / float64(dstRate)
	dstFrames := int(float64(srcFrames) * float64(dstRate) / float64(a.SampleRate))

	src := a.PCM
	if ratio > 1.0 {
		src = lowPass(src, channels, 0.5)
	}

	// frame fetches the sample for frame i, channel c, clamping at the edges
	frame := func(i, c int) float64 {
		if i < 0 {
			i = 0
		}
		if i >= srcFrames {
			i = srcFrames - 1
		}
		return src[i*channels+c]
	}

	out := make([]float64, dstFrames*channels)
	for i := 0; i < dstFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		alpha := pos - float64(idx)

		for c := 0; c < channels; c++ {
			y0 := frame(idx-1, c)
			y1 := frame(idx, c)
			y2 := frame(idx+1, c)
			y3 := frame(idx+2, c)
			out[i*channels+c] = cubicInterpolate(y0, y1, y2, y3, alpha)
		}
	}

	return newAudioData(out, dstRate, channels)
}

// lowPass runs a per-channel one-pole low-pass over interleaved samples.
func lowPass(pcm []float64, channels int, alpha float64) []float64 {
	out := make([]float64, len(pcm))
	state := make([]float64, channels)
	frames := len(pcm) / channels

	for c := 0; c < channels; c++ {
		state[c] = pcm[c]
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := alpha*pcm[i*channels+c] + (1-alpha)*state[c]
			state[c] = v
			out[i*channels+c] = v
		}
	}

	return out
}

// cubicInterpolate evaluates a Catmull-Rom spline through four consecutive
// samples at fractional position x between y1 and y2 (0 <= x <= 1).
func cubicInterpolate(y0, y1, y2, y3, x float64) float64 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
