package spectral

import (
	"math"
)

const (
	// dbAmin clips magnitudes before the logarithm so silence stays finite
	dbAmin = 1e-5
	// dbTop bounds the dynamic range below the spectrogram peak
	dbTop = 80.0
)

// AmplitudeToDB converts a magnitude matrix to decibels referenced to the
// matrix maximum, so the loudest value maps to 0 dB. The dynamic range is
// limited to dbTop below the peak.
func AmplitudeToDB(magnitude [][]float64) [][]float64 {
	if len(magnitude) == 0 {
		return magnitude
	}

	ref := dbAmin
	for _, row := range magnitude {
		for _, v := range row {
			if v > ref {
				ref = v
			}
		}
	}

	refDB := 20.0 * math.Log10(ref)

	db := make([][]float64, len(magnitude))
	for i, row := range magnitude {
		db[i] = make([]float64, len(row))
		for j, v := range row {
			if v < dbAmin {
				v = dbAmin
			}
			d := 20.0*math.Log10(v) - refDB
			if d < -dbTop {
				d = -dbTop
			}
			db[i][j] = d
		}
	}

	return db
}
