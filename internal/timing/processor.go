package timing

import "fmt"

// Params holds the static configuration for a timing pipeline run. A
// Params value is immutable once built; a Processor carries no other
// state, so one Processor may serve any number of sequences and
// independent Processors may run concurrently.
type Params struct {
	HighThreshold    float64 `json:"threshold_high"`
	LowThreshold     float64 `json:"threshold_low"`
	HysteresisMargin float64 `json:"hysteresis_margin"`
	MinDuration      float64 `json:"min_duration"` // seconds
	SmoothingMethod  string  `json:"smoothing_method"`
	SmoothingAlpha   float64 `json:"smoothing_alpha"`
	WindowSize       int     `json:"window_size"`
	EnableAccents    bool    `json:"enable_tame_tsume"`
	AccelThreshold   float64 `json:"acceleration_threshold"`
}

// DefaultParams returns the stock tuning for typical 24-30fps footage.
func DefaultParams() Params {
	return Params{
		HighThreshold:    0.60,
		LowThreshold:     0.35,
		HysteresisMargin: 0.05,
		MinDuration:      0.08,
		SmoothingMethod:  SmoothEMA,
		SmoothingAlpha:   0.7,
		WindowSize:       3,
		EnableAccents:    false,
		AccelThreshold:   defaultAccelSpike,
	}
}

// Processor runs the full intensity-to-decision pipeline: smoothing,
// hysteresis classification, minimum-duration enforcement, decision
// building, and optional accent overlay.
type Processor struct {
	params Params
}

// NewProcessor builds a processor around an immutable parameter set.
func NewProcessor(params Params) *Processor {
	return &Processor{params: params}
}

// ProcessSequence turns a complete sequence of per-frame intensity
// scores and timestamps into one timing decision per frame.
// Accelerations are optional and only consulted when accent detection is
// enabled; pass nil to skip the overlay.
//
// A length mismatch between scores and timestamps is a caller error and
// fails fast. The output always has exactly one decision per input
// score. The smoothed series used for classification (and accent
// detection) is also returned so callers can persist or plot it.
func (p *Processor) ProcessSequence(scores, timestamps, accelerations []float64) ([]FrameTimingDecision, []float64, error) {
	if len(scores) != len(timestamps) {
		return nil, nil, fmt.Errorf("scores and timestamps must have the same length: %d != %d", len(scores), len(timestamps))
	}

	smoothed, err := Smooth(scores, p.params.SmoothingMethod, p.params.SmoothingAlpha, p.params.WindowSize)
	if err != nil {
		return nil, nil, err
	}

	classifier := NewClassifier(p.params.HighThreshold, p.params.LowThreshold, p.params.HysteresisMargin)
	states := classifier.ClassifySequence(smoothed)
	states = EnforceMinDuration(states, timestamps, p.params.MinDuration)

	decisions := DecisionsFromStates(states, 0)

	if p.params.EnableAccents && len(accelerations) > 0 {
		tame, tsume := DetectAccents(accelerations, smoothed, p.params.AccelThreshold)
		for _, i := range tame {
			if i >= 0 && i < len(decisions) {
				decisions[i].Tame = true
			}
		}
		for _, i := range tsume {
			if i >= 0 && i < len(decisions) {
				decisions[i].Tsume = true
			}
		}
	}

	return decisions, smoothed, nil
}
