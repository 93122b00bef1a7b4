package timing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stampsAt builds n timestamps at the given frame interval.
func stampsAt(n int, dt float64) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * dt
	}
	return ts
}

func TestFindSegments(t *testing.T) {
	states := []MotionState{Low, Low, Mid, Mid, Mid, High, Low}

	got := findSegments(states)
	want := []segment{
		{start: 0, end: 1, state: Low},
		{start: 2, end: 4, state: Mid},
		{start: 5, end: 5, state: High},
		{start: 6, end: 6, state: Low},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(segment{})); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestEnforceMinDuration_RevertsShortSegment(t *testing.T) {
	// 30fps: a single-frame Mid blip spans 0s, well under 80ms.
	states := []MotionState{Low, Low, Low, Mid, Low, Low, Low}
	ts := stampsAt(len(states), 1.0/30.0)

	got := EnforceMinDuration(states, ts, 0.08)
	want := []MotionState{Low, Low, Low, Low, Low, Low, Low}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestEnforceMinDuration_HighNeverReverted(t *testing.T) {
	states := []MotionState{Low, Low, Low, High, Low, Low, Low}
	ts := stampsAt(len(states), 1.0/30.0)

	got := EnforceMinDuration(states, ts, 0.08)
	if got[3] != High {
		t.Errorf("short High segment must survive, got %v", got[3])
	}
}

func TestEnforceMinDuration_FirstSegmentUntouched(t *testing.T) {
	// The leading segment has no predecessor to revert to.
	states := []MotionState{Mid, Low, Low, Low, Low}
	ts := stampsAt(len(states), 1.0/30.0)

	got := EnforceMinDuration(states, ts, 0.08)
	if got[0] != Mid {
		t.Errorf("first segment should be a no-op, got %v", got[0])
	}
}

func TestEnforceMinDuration_LongSegmentsKept(t *testing.T) {
	states := []MotionState{Low, Low, Low, Mid, Mid, Mid, Mid, Low, Low, Low, Low}
	ts := stampsAt(len(states), 1.0/30.0) // every segment spans at least 100ms

	got := EnforceMinDuration(states, ts, 0.08)
	if diff := cmp.Diff(states, got); diff != "" {
		t.Errorf("long segments should be unchanged (-want +got):\n%s", diff)
	}
}

func TestEnforceMinDuration_SinglePass(t *testing.T) {
	// Two adjacent short segments: each is evaluated against the
	// original partition. The Mid blip reverts to Low; the following
	// short Low run is already Low and stays. No cascading re-merge.
	states := []MotionState{Low, Low, Low, Mid, Low, Mid, Mid, Mid, Mid, Mid}
	ts := stampsAt(len(states), 1.0/30.0)

	got := EnforceMinDuration(states, ts, 0.08)

	// Frame 3's blip reverts to Low. Frame 4's single-frame Low segment
	// reverts to its predecessor, which is now Low after the first
	// reversion. The long trailing Mid run is kept.
	want := []MotionState{Low, Low, Low, Low, Low, Mid, Mid, Mid, Mid, Mid}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestEnforceMinDuration_MismatchedInputUnchanged(t *testing.T) {
	states := []MotionState{Low, Mid}
	got := EnforceMinDuration(states, []float64{0}, 0.08)
	if diff := cmp.Diff(states, got); diff != "" {
		t.Errorf("mismatched input should be returned unchanged (-want +got):\n%s", diff)
	}
}
