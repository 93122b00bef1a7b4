package timing

// segment is a maximal run of consecutive frames sharing one motion
// state, identified by its inclusive index span.
type segment struct {
	start int
	end   int
	state MotionState
}

// findSegments partitions a state sequence into maximal runs of
// identical consecutive state.
func findSegments(states []MotionState) []segment {
	if len(states) == 0 {
		return nil
	}

	var segments []segment
	start := 0
	for i := 1; i < len(states); i++ {
		if states[i] != states[i-1] {
			segments = append(segments, segment{start: start, end: i - 1, state: states[i-1]})
			start = i
		}
	}
	segments = append(segments, segment{start: start, end: len(states) - 1, state: states[len(states)-1]})
	return segments
}

// EnforceMinDuration overwrites state segments shorter than minDuration
// seconds with the state of the frame immediately preceding the segment.
// High segments are exempt: a short burst of fast motion is
// animation-significant and is never reverted. The first segment has no
// predecessor and is left alone.
//
// Segments are computed once from the input and visited in a single
// pass. Reversions can leave newly-adjacent identical states; those are
// not re-merged or re-evaluated within the same call.
//
// Timestamps must be monotonically non-decreasing and parallel to
// states; sequences of length <= 1 or mismatched inputs are returned
// unchanged.
func EnforceMinDuration(states []MotionState, timestamps []float64, minDuration float64) []MotionState {
	if len(states) != len(timestamps) || len(states) <= 1 {
		return states
	}

	constrained := make([]MotionState, len(states))
	copy(constrained, states)

	for _, seg := range findSegments(states) {
		if seg.state == High {
			continue
		}
		if timestamps[seg.end]-timestamps[seg.start] >= minDuration {
			continue
		}
		if seg.start == 0 {
			continue
		}

		prev := constrained[seg.start-1]
		for i := seg.start; i <= seg.end; i++ {
			constrained[i] = prev
		}
	}

	return constrained
}
