package timing

// Accent thresholds for tame detection: how far back to scan before an
// impact frame, and the intensity below which a frame reads as a hold.
const (
	tameLookback      = 3
	tameQuietScore    = 0.3
	defaultAccelSpike = 0.5
)

// DetectAccents flags anticipation ("tame") and impact ("tsume") frames
// from acceleration spikes in a sequence.
//
// Every index whose acceleration reaches accelThreshold is a tsume
// frame. For each tsume frame, the up-to-three preceding indices whose
// smoothed intensity is below the quiet threshold are tame frames; an
// index near several spikes may be recorded more than once.
//
// Mismatched lengths or empty input fail soft to two empty results.
func DetectAccents(accelerations, scores []float64, accelThreshold float64) (tame, tsume []int) {
	if len(accelerations) != len(scores) || len(accelerations) == 0 {
		return nil, nil
	}

	for i, a := range accelerations {
		if a >= accelThreshold {
			tsume = append(tsume, i)
		}
	}

	for _, spike := range tsume {
		start := spike - tameLookback
		if start < 0 {
			start = 0
		}
		for j := start; j < spike; j++ {
			if scores[j] < tameQuietScore {
				tame = append(tame, j)
			}
		}
	}

	return tame, tsume
}
