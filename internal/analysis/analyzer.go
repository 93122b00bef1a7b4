// Package analysis runs the whole per-sequence motion pipeline: landmark
// geometry in, per-frame timing decisions and persistable records out.
package analysis

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/sakuga-tools/retimer/internal/motion"
	"github.com/sakuga-tools/retimer/internal/timing"
)

// FrameObservation is one frame of detector output: the frame's position
// in the sequence, its timestamp in seconds, and whatever landmarks the
// external pose detector found. Landmarks may be empty (detection gap)
// and counts may differ between frames; both degrade that frame's motion
// signal to zero rather than failing.
type FrameObservation struct {
	Index     int               `json:"index"`
	Timestamp float64           `json:"timestamp"`
	Landmarks []motion.Landmark `json:"landmarks"`
}

// Params is the full static configuration for an analysis run.
type Params struct {
	Weights motion.Weights `json:"motion_weights"`
	Timing  timing.Params  `json:"timing"`
}

// DefaultParams returns stock weights and timing parameters.
func DefaultParams() Params {
	return Params{
		Weights: motion.DefaultWeights(),
		Timing:  timing.DefaultParams(),
	}
}

// FrameRecord is the persisted per-frame outcome of a run: the raw and
// smoothed intensity alongside the resolved timing decision.
type FrameRecord struct {
	Index            int     `json:"frame_index"`
	Timestamp        float64 `json:"timestamp"`
	Intensity        float64 `json:"motion_intensity_score"`
	Smoothed         float64 `json:"smoothed_intensity"`
	State            string  `json:"motion_state"`
	TimingMultiplier int     `json:"timing_multiplier"`
	Tame             bool    `json:"is_tame"`
	Tsume            bool    `json:"is_tsume"`
}

// Result is a completed analysis of one landmark sequence.
type Result struct {
	ID         string        `json:"id"`
	SourcePath string        `json:"source_path"`
	OutputPath string        `json:"output_path"`
	CreatedAt  time.Time     `json:"created_at"`
	Params     Params        `json:"params"`
	Frames     []FrameRecord `json:"frames"`
}

// Decisions rebuilds the timing decision sequence for the external
// frame-repetition writer: each source frame is written exactly
// TimingMultiplier times, in order, at the source frame rate.
func (r *Result) Decisions() []timing.FrameTimingDecision {
	decisions := make([]timing.FrameTimingDecision, len(r.Frames))
	for i, f := range r.Frames {
		decisions[i] = timing.FrameTimingDecision{
			FrameIndex:       f.Index,
			State:            timing.ParseState(f.State),
			StateName:        f.State,
			ShouldKeep:       true,
			TimingMultiplier: f.TimingMultiplier,
			Tame:             f.Tame,
			Tsume:            f.Tsume,
		}
	}
	return decisions
}

// Analyzer computes motion intensity from landmark sequences and
// delegates timing to the decision pipeline. An Analyzer holds only its
// Params value and may be reused across sequences; independent analyzers
// may run concurrently.
type Analyzer struct {
	params Params
}

// NewAnalyzer builds an analyzer around an immutable parameter set.
func NewAnalyzer(params Params) *Analyzer {
	return &Analyzer{params: params}
}

// Analyze runs the full pipeline over a complete frame sequence.
//
// Per frame it derives displacement, velocity, acceleration, direction
// change and pose change against the preceding frames, folds them into
// the bounded intensity score, then smooths, classifies, enforces the
// minimum segment duration, and builds one decision per frame. The first
// frame has no history and always scores 0.
func (a *Analyzer) Analyze(frames []FrameObservation) (*Result, error) {
	n := len(frames)
	scores := make([]float64, n)
	timestamps := make([]float64, n)
	meanAccels := make([]float64, n)

	var prevVelocities []float64
	for i, frame := range frames {
		timestamps[i] = frame.Timestamp

		if i == 0 {
			continue
		}

		prev := frames[i-1]
		dt := frame.Timestamp - prev.Timestamp

		displacement := motion.Displacement(frame.Landmarks, prev.Landmarks)
		velocity := motion.Velocity(displacement, dt)
		acceleration := motion.Acceleration(velocity, prevVelocities, dt)

		var directionChange []float64
		if i >= 2 {
			directionChange = motion.DirectionChange(frame.Landmarks, prev.Landmarks, frames[i-2].Landmarks)
		}

		poseChange := motion.PoseChange(frame.Landmarks, prev.Landmarks)

		scores[i] = motion.IntensityScore(displacement, velocity, acceleration, directionChange, poseChange, a.params.Weights)
		meanAccels[i] = meanAbs(acceleration)
		prevVelocities = velocity
	}

	processor := timing.NewProcessor(a.params.Timing)
	decisions, smoothed, err := processor.ProcessSequence(scores, timestamps, meanAccels)
	if err != nil {
		return nil, err
	}

	records := make([]FrameRecord, n)
	for i, d := range decisions {
		records[i] = FrameRecord{
			Index:            frames[i].Index,
			Timestamp:        timestamps[i],
			Intensity:        scores[i],
			Smoothed:         smoothed[i],
			State:            d.StateName,
			TimingMultiplier: d.TimingMultiplier,
			Tame:             d.Tame,
			Tsume:            d.Tsume,
		}
	}

	return &Result{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Params:    a.params,
		Frames:    records,
	}, nil
}

func meanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	abs := make([]float64, len(values))
	for i, v := range values {
		if v < 0 {
			abs[i] = -v
		} else {
			abs[i] = v
		}
	}
	return stat.Mean(abs, nil)
}
