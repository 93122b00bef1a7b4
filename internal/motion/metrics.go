package motion

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Normalisation ceilings for the composite intensity score. These are
// heuristic maxima for typical footage; a component at or above its
// ceiling saturates at 1.0.
const (
	maxDisplacementPx  = 50.0    // pixels per frame
	maxVelocityPxSec   = 1000.0  // pixels per second
	maxAccelPxSec2     = 10000.0 // pixels per second squared
	maxPoseChangePx    = 100.0   // mean pixels per landmark
	maxDirectionChange = math.Pi // a full reversal
)

// Weights controls the contribution of each feature family to the
// composite intensity score. Weights are not required to sum to 1; the
// final score is clamped to [0, 1] regardless.
type Weights struct {
	Displacement    float64 `json:"displacement"`
	Velocity        float64 `json:"velocity"`
	Acceleration    float64 `json:"acceleration"`
	DirectionChange float64 `json:"direction_change"`
	PoseChange      float64 `json:"pose_change"`
}

// DefaultWeights returns the stock weighting used when no override is
// configured.
func DefaultWeights() Weights {
	return Weights{
		Displacement:    0.20,
		Velocity:        0.25,
		Acceleration:    0.25,
		DirectionChange: 0.15,
		PoseChange:      0.15,
	}
}

// Displacement computes the per-landmark Euclidean distance between two
// frames. Returns an empty slice when either frame has no landmarks or
// the counts differ.
func Displacement(curr, prev []Landmark) []float64 {
	if len(curr) == 0 || len(prev) == 0 || len(curr) != len(prev) {
		return nil
	}

	out := make([]float64, len(curr))
	for i := range curr {
		dx := float64(curr[i].X - prev[i].X)
		dy := float64(curr[i].Y - prev[i].Y)
		out[i] = math.Hypot(dx, dy)
	}
	return out
}

// Velocity converts per-landmark displacements into velocities over the
// frame interval dt (seconds). Returns an empty slice for empty input or
// dt == 0.
func Velocity(displacements []float64, dt float64) []float64 {
	if len(displacements) == 0 || dt == 0 {
		return nil
	}

	out := make([]float64, len(displacements))
	for i, d := range displacements {
		out[i] = d / dt
	}
	return out
}

// Acceleration computes per-landmark acceleration from two consecutive
// velocity sets. Returns an empty slice on empty input, mismatched
// lengths, or dt == 0.
func Acceleration(velCurr, velPrev []float64, dt float64) []float64 {
	if len(velCurr) == 0 || len(velPrev) == 0 || dt == 0 {
		return nil
	}
	if len(velCurr) != len(velPrev) {
		return nil
	}

	out := make([]float64, len(velCurr))
	for i := range velCurr {
		out[i] = (velCurr[i] - velPrev[i]) / dt
	}
	return out
}

// DirectionChange computes, per landmark, the angle in radians between
// the motion vector t0→t1 and the motion vector t1→t2. A landmark that
// did not move in either interval contributes 0.0 (no turn). Results are
// always in [0, π]. Returns an empty slice on empty or length-mismatched
// input.
func DirectionChange(t2, t1, t0 []Landmark) []float64 {
	if len(t2) == 0 || len(t1) == 0 || len(t0) == 0 {
		return nil
	}
	if len(t2) != len(t1) || len(t1) != len(t0) {
		return nil
	}

	out := make([]float64, len(t2))
	for i := range t2 {
		v1x := float64(t1[i].X - t0[i].X)
		v1y := float64(t1[i].Y - t0[i].Y)
		v2x := float64(t2[i].X - t1[i].X)
		v2y := float64(t2[i].Y - t1[i].Y)

		mag1 := math.Hypot(v1x, v1y)
		mag2 := math.Hypot(v2x, v2y)
		if mag1 == 0 || mag2 == 0 {
			out[i] = 0.0
			continue
		}

		// Clamp the normalised dot product: floating point can overshoot
		// [-1, 1] slightly, which would push Acos out of its domain.
		dot := (v1x*v2x + v1y*v2y) / (mag1 * mag2)
		dot = math.Max(-1.0, math.Min(1.0, dot))
		out[i] = math.Acos(dot)
	}
	return out
}

// PoseChange computes the mean per-landmark distance between two frames,
// a whole-body measure of how much the pose moved. Returns 0.0 on empty
// or length-mismatched input.
func PoseChange(curr, prev []Landmark) float64 {
	if len(curr) == 0 || len(prev) == 0 || len(curr) != len(prev) {
		return 0.0
	}

	total := 0.0
	for i := range curr {
		dx := float64(curr[i].X - prev[i].X)
		dy := float64(curr[i].Y - prev[i].Y)
		total += math.Hypot(dx, dy)
	}
	return total / float64(len(curr))
}

// IntensityScore folds the five feature families into a single bounded
// motion intensity score. Each family is reduced to its mean (mean of
// absolute values for acceleration), normalised by its heuristic ceiling,
// clipped to 1.0, and combined as a weighted sum clamped to [0, 1].
//
// When every slice is empty and poseChange is zero the score is exactly
// 0.0 without evaluating any component.
func IntensityScore(displacement, velocity, acceleration, directionChange []float64, poseChange float64, w Weights) float64 {
	if len(displacement) == 0 && len(velocity) == 0 && len(acceleration) == 0 &&
		len(directionChange) == 0 && poseChange == 0.0 {
		return 0.0
	}

	var dispMean, velMean, accelMean, dirMean float64
	if len(displacement) > 0 {
		dispMean = stat.Mean(displacement, nil)
	}
	if len(velocity) > 0 {
		velMean = stat.Mean(velocity, nil)
	}
	if len(acceleration) > 0 {
		abs := make([]float64, len(acceleration))
		for i, a := range acceleration {
			abs[i] = math.Abs(a)
		}
		accelMean = stat.Mean(abs, nil)
	}
	if len(directionChange) > 0 {
		dirMean = stat.Mean(directionChange, nil)
	}

	score := w.Displacement*normalise(dispMean, maxDisplacementPx) +
		w.Velocity*normalise(velMean, maxVelocityPxSec) +
		w.Acceleration*normalise(accelMean, maxAccelPxSec2) +
		w.DirectionChange*normalise(dirMean, maxDirectionChange) +
		w.PoseChange*normalise(poseChange, maxPoseChangePx)

	return math.Max(0.0, math.Min(1.0, score))
}

// normalise scales value by its ceiling and clips to 1.0.
func normalise(value, ceiling float64) float64 {
	return math.Min(value/ceiling, 1.0)
}
