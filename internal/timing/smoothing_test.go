package timing

import (
	"math"
	"testing"
)

func TestSmooth_EMA(t *testing.T) {
	scores := []float64{0.1, 0.5, 0.9}
	alpha := 0.7

	got, err := Smooth(scores, SmoothEMA, alpha, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(scores) {
		t.Fatalf("smoothed length = %d, want %d", len(got), len(scores))
	}

	if got[0] != scores[0] {
		t.Errorf("first element should be unchanged: got %v, want %v", got[0], scores[0])
	}
	want1 := alpha*scores[1] + (1-alpha)*scores[0]
	if math.Abs(got[1]-want1) > 1e-12 {
		t.Errorf("smoothed[1] = %v, want %v", got[1], want1)
	}
	want2 := alpha*scores[2] + (1-alpha)*want1
	if math.Abs(got[2]-want2) > 1e-12 {
		t.Errorf("smoothed[2] = %v, want %v", got[2], want2)
	}
}

func TestSmooth_Window(t *testing.T) {
	scores := []float64{0.2, 0.4, 0.6, 0.8, 1.0}

	got, err := Smooth(scores, SmoothWindow, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The window grows from the start until it reaches size 3, then
	// trails: [0.2], mean(0.2,0.4), mean(0.2,0.4,0.6), mean(0.4,0.6,0.8),
	// mean(0.6,0.8,1.0).
	want := []float64{0.2, 0.3, 0.4, 0.6, 0.8}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("smoothed[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSmooth_Empty(t *testing.T) {
	for _, method := range []string{SmoothEMA, SmoothWindow} {
		got, err := Smooth(nil, method, 0.7, 3)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", method, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: empty input should yield empty output, got %v", method, got)
		}
	}
}

func TestSmooth_UnknownMethodFailsFast(t *testing.T) {
	_, err := Smooth([]float64{0.5}, "median", 0.7, 3)
	if err == nil {
		t.Fatal("unknown smoothing method should be an error")
	}
}
