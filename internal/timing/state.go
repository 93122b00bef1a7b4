// Package timing classifies smoothed motion intensity into motion states
// and turns state sequences into per-frame hold decisions for re-encoding.
package timing

// MotionState is the classification of a frame's motion level.
type MotionState int

const (
	Low MotionState = iota
	Mid
	High
)

// holdCounts maps each motion state to the number of times a frame in
// that state is written to the output. Moderate motion is held on
// threes, fast motion on twos. The mapping is fixed data, never
// overridden per instance.
var holdCounts = map[MotionState]int{
	Low:  1, // every frame kept, no repetition
	Mid:  3, // timing on threes
	High: 2, // timing on twos
}

// HoldCount returns the fixed frame hold count for the state.
func (s MotionState) HoldCount() int {
	if n, ok := holdCounts[s]; ok {
		return n
	}
	return 1
}

// String returns the state name.
func (s MotionState) String() string {
	switch s {
	case Low:
		return "LOW"
	case Mid:
		return "MID"
	case High:
		return "HIGH"
	}
	return "UNKNOWN"
}

// ParseState converts a stored state name back to a MotionState. Unknown
// names map to Low.
func ParseState(name string) MotionState {
	switch name {
	case "MID":
		return Mid
	case "HIGH":
		return High
	}
	return Low
}

// FrameTimingDecision is the per-frame output of the pipeline: how the
// external writer should time one source frame. ShouldKeep is always
// true; holds are realised by repeating frames, never by dropping them.
type FrameTimingDecision struct {
	FrameIndex       int         `json:"frame_index"`
	State            MotionState `json:"-"`
	StateName        string      `json:"motion_state"`
	ShouldKeep       bool        `json:"should_keep"`
	TimingMultiplier int         `json:"timing_multiplier"`
	Tame             bool        `json:"is_tame"`
	Tsume            bool        `json:"is_tsume"`
}

// DecisionsFromStates builds one decision per state, numbering frames
// from startFrame. Multipliers come from the state's fixed hold count.
func DecisionsFromStates(states []MotionState, startFrame int) []FrameTimingDecision {
	decisions := make([]FrameTimingDecision, len(states))
	for i, s := range states {
		decisions[i] = FrameTimingDecision{
			FrameIndex:       startFrame + i,
			State:            s,
			StateName:        s.String(),
			ShouldKeep:       true,
			TimingMultiplier: s.HoldCount(),
		}
	}
	return decisions
}
