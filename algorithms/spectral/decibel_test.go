package spectral

import (
	"math"
	"testing"
)

func TestAmplitudeToDB_ReferencedToMax(t *testing.T) {
	t.Parallel()

	magnitude := [][]float64{
		{1.0, 10.0},
		{0.1, 100.0},
	}

	db := AmplitudeToDB(magnitude)

	want := [][]float64{
		{-40.0, -20.0},
		{-60.0, 0.0},
	}

	for i := range want {
		for j := range want[i] {
			if math.Abs(db[i][j]-want[i][j]) > 1e-9 {
				t.Errorf("db[%d][%d] = %v, want %v", i, j, db[i][j], want[i][j])
			}
		}
	}
}

func TestAmplitudeToDB_DynamicRangeFloor(t *testing.T) {
	t.Parallel()

	// 1e-9 is far below the peak; it clips to amin and then to the floor
	db := AmplitudeToDB([][]float64{{1.0, 1e-9}})

	if db[0][0] != 0 {
		t.Errorf("peak = %v dB, want 0", db[0][0])
	}
	if db[0][1] != -dbTop {
		t.Errorf("floor = %v dB, want %v", db[0][1], -dbTop)
	}
}

func TestAmplitudeToDB_Empty(t *testing.T) {
	t.Parallel()

	if got := AmplitudeToDB(nil); len(got) != 0 {
		t.Errorf("AmplitudeToDB(nil) = %v, want empty", got)
	}
}

func TestAmplitudeToDB_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	magnitude := [][]float64{{1.0, 2.0}}
	AmplitudeToDB(magnitude)

	if magnitude[0][0] != 1.0 || magnitude[0][1] != 2.0 {
		t.Errorf("input mutated: %v", magnitude)
	}
}
