package timing

// Classifier maps smoothed intensity values to motion states with
// asymmetric thresholds keyed on the previous frame's state. Each state
// has a narrower exit band than its entry band, so the signal must swing
// further to leave a state than it needed to enter it. That asymmetry is
// what damps rapid alternation when intensity oscillates near a
// threshold. A Classifier holds only thresholds and is safe to share;
// hysteresis state is threaded explicitly through Next.
type Classifier struct {
	High   float64 // entry threshold for High
	Low    float64 // entry threshold for Mid (below it is Low)
	Margin float64 // extra swing required to leave a state
}

// NewClassifier builds a classifier. Callers are expected to have
// validated low < high via the tuning config.
func NewClassifier(high, low, margin float64) Classifier {
	return Classifier{High: high, Low: low, Margin: margin}
}

// Initial classifies the first frame of a sequence, where no previous
// state exists and plain thresholds apply.
func (c Classifier) Initial(value float64) MotionState {
	switch {
	case value >= c.High:
		return High
	case value >= c.Low:
		return Mid
	default:
		return Low
	}
}

// Next classifies a frame given the previous frame's state.
//
// A large enough swing moves High directly to Low (and Low directly to
// High) without a one-frame stop in Mid; abrupt large motion changes are
// meant to register immediately.
func (c Classifier) Next(value float64, prev MotionState) MotionState {
	switch prev {
	case High:
		if value < c.Low {
			return Low
		}
		if value < c.High-c.Margin {
			return Mid
		}
		return High

	case Mid:
		if value >= c.High+c.Margin {
			return High
		}
		if value < c.Low-c.Margin {
			return Low
		}
		return Mid

	case Low:
		if value >= c.High+c.Margin {
			return High
		}
		if value >= c.Low+c.Margin {
			return Mid
		}
		return Low
	}

	return prev
}

// ClassifySequence runs the classifier over a whole smoothed intensity
// sequence, threading the hysteresis state frame to frame.
func (c Classifier) ClassifySequence(scores []float64) []MotionState {
	if len(scores) == 0 {
		return nil
	}

	states := make([]MotionState, len(scores))
	states[0] = c.Initial(scores[0])
	for i := 1; i < len(scores); i++ {
		states[i] = c.Next(scores[i], states[i-1])
	}
	return states
}
