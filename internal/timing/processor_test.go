package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSequence_LengthMismatchFailsFast(t *testing.T) {
	p := NewProcessor(DefaultParams())

	_, _, err := p.ProcessSequence([]float64{0.1, 0.2}, []float64{0.0}, nil)
	require.Error(t, err)
}

func TestProcessSequence_UnknownMethodFailsFast(t *testing.T) {
	params := DefaultParams()
	params.SmoothingMethod = "gaussian"
	p := NewProcessor(params)

	_, _, err := p.ProcessSequence([]float64{0.1}, []float64{0.0}, nil)
	require.Error(t, err)
}

func TestProcessSequence_RoundTripLength(t *testing.T) {
	p := NewProcessor(DefaultParams())

	for _, n := range []int{0, 1, 7, 120} {
		scores := make([]float64, n)
		ts := make([]float64, n)
		for i := range scores {
			scores[i] = float64(i%10) / 10.0
			ts[i] = float64(i) / 30.0
		}

		decisions, smoothed, err := p.ProcessSequence(scores, ts, nil)
		require.NoError(t, err)
		assert.Len(t, decisions, n)
		assert.Len(t, smoothed, n)
	}
}

// idleActionIdle builds a 25-frame sequence: quiet, a burst of fast
// motion, quiet again.
func idleActionIdle() (scores, timestamps []float64) {
	scores = make([]float64, 25)
	timestamps = make([]float64, 25)
	for i := range scores {
		timestamps[i] = float64(i) / 30.0
		switch {
		case i < 10:
			scores[i] = 0.05
		case i < 18:
			scores[i] = 0.9
		default:
			scores[i] = 0.05
		}
	}
	return scores, timestamps
}

func TestProcessSequence_IdleActionIdle(t *testing.T) {
	p := NewProcessor(DefaultParams())
	scores, ts := idleActionIdle()

	decisions, _, err := p.ProcessSequence(scores, ts, nil)
	require.NoError(t, err)
	require.Len(t, decisions, 25)

	assert.Equal(t, Low, decisions[0].State, "sequence should start idle")
	assert.Equal(t, Low, decisions[24].State, "sequence should end idle")

	sawHigh := false
	for _, d := range decisions[10:18] {
		if d.State == High {
			sawHigh = true
			break
		}
	}
	assert.True(t, sawHigh, "the action window should classify as HIGH")

	for _, d := range decisions {
		assert.True(t, d.ShouldKeep)
		assert.GreaterOrEqual(t, d.TimingMultiplier, 1)
		assert.Equal(t, d.State.HoldCount(), d.TimingMultiplier)
	}
}

func TestProcessSequence_AccentOverlay(t *testing.T) {
	params := DefaultParams()
	params.EnableAccents = true
	params.SmoothingAlpha = 1.0 // pass scores through unchanged
	p := NewProcessor(params)

	scores := []float64{0.1, 0.1, 0.1, 0.9, 0.9}
	ts := stampsAt(len(scores), 1.0/30.0)
	accel := []float64{0, 0, 0, 0.8, 0}

	decisions, _, err := p.ProcessSequence(scores, ts, accel)
	require.NoError(t, err)

	assert.True(t, decisions[3].Tsume, "spike frame should be tsume")
	assert.True(t, decisions[0].Tame)
	assert.True(t, decisions[1].Tame)
	assert.True(t, decisions[2].Tame)
	assert.False(t, decisions[4].Tame)
	assert.False(t, decisions[4].Tsume)
}

func TestProcessSequence_AccentsDisabledByDefault(t *testing.T) {
	p := NewProcessor(DefaultParams())

	scores := []float64{0.1, 0.1, 0.9}
	ts := stampsAt(len(scores), 1.0/30.0)
	accel := []float64{0, 0, 99}

	decisions, _, err := p.ProcessSequence(scores, ts, accel)
	require.NoError(t, err)
	for i, d := range decisions {
		assert.False(t, d.Tame, "frame %d", i)
		assert.False(t, d.Tsume, "frame %d", i)
	}
}
