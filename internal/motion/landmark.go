// Package motion derives scalar motion features from tracked 2D landmarks.
//
// All functions in this package are pure and fail-soft: a frame with no
// detected landmarks, or a landmark count that changed between frames,
// yields an empty (or zero) result rather than an error. A single missed
// detection degrades the motion signal for that frame instead of aborting
// the whole sequence.
package motion

// Landmark is a single tracked 2D point in pixel coordinates, as reported
// by the external pose detector. Name is an optional tag (e.g. "left_wrist")
// and plays no role in any computation.
type Landmark struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Name string `json:"name,omitempty"`
}
