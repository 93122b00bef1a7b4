package timing

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Smoothing method names accepted by Smooth and the tuning config.
const (
	SmoothEMA    = "ema"
	SmoothWindow = "window"
)

// Smooth low-pass-filters an intensity sequence to suppress per-frame
// jitter before classification. Both methods are causal: no lookahead.
//
//   - "ema": s[0] = x[0]; s[i] = alpha*x[i] + (1-alpha)*s[i-1]
//   - "window": s[0] = x[0]; s[i] = mean of the trailing window ending at
//     i, growing from the start of the sequence until it reaches size.
//
// An unknown method is a configuration mistake and returns an error
// immediately; it is never treated as a data condition.
func Smooth(scores []float64, method string, alpha float64, size int) ([]float64, error) {
	switch method {
	case SmoothEMA:
		return smoothEMA(scores, alpha), nil
	case SmoothWindow:
		return smoothWindow(scores, size), nil
	default:
		return nil, fmt.Errorf("unknown smoothing method %q (want %q or %q)", method, SmoothEMA, SmoothWindow)
	}
}

func smoothEMA(scores []float64, alpha float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	out := make([]float64, len(scores))
	out[0] = scores[0]
	for i := 1; i < len(scores); i++ {
		out[i] = alpha*scores[i] + (1-alpha)*out[i-1]
	}
	return out
}

func smoothWindow(scores []float64, size int) []float64 {
	if len(scores) == 0 {
		return nil
	}

	out := make([]float64, len(scores))
	out[0] = scores[0]
	for i := 1; i < len(scores); i++ {
		start := i + 1 - size
		if start < 0 {
			start = 0
		}
		out[i] = stat.Mean(scores[start:i+1], nil)
	}
	return out
}
