// Package config loads and validates analysis tuning parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakuga-tools/retimer/internal/analysis"
	"github.com/sakuga-tools/retimer/internal/motion"
	"github.com/sakuga-tools/retimer/internal/timing"
)

// Motion weight keys accepted in the motion_weights map.
const (
	WeightDisplacement    = "displacement"
	WeightVelocity        = "velocity"
	WeightAcceleration    = "acceleration"
	WeightDirectionChange = "direction_change"
	WeightPoseChange      = "pose_change"
)

// TuningConfig is the flat parameter set accepted from a JSON file or an
// inline JSON string. Every field is optional; fields omitted from the
// JSON keep their defaults, so partial configs are safe.
type TuningConfig struct {
	ThresholdHigh         *float64           `json:"threshold_high,omitempty"`
	ThresholdLow          *float64           `json:"threshold_low,omitempty"`
	HysteresisMargin      *float64           `json:"hysteresis_margin,omitempty"`
	MinDuration           *float64           `json:"min_duration,omitempty"`
	SmoothingMethod       *string            `json:"smoothing_method,omitempty"`
	SmoothingAlpha        *float64           `json:"smoothing_alpha,omitempty"`
	WindowSize            *int               `json:"window_size,omitempty"`
	EnableTameTsume       *bool              `json:"enable_tame_tsume,omitempty"`
	AccelerationThreshold *float64           `json:"acceleration_threshold,omitempty"`
	MotionWeights         map[string]float64 `json:"motion_weights,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset; the
// Get* accessors supply the defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// carry a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseTuningConfig(data)
}

// ParseTuningConfig parses and validates a TuningConfig from raw JSON,
// as supplied inline on the command line.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable. Violations
// are configuration mistakes and fail fast.
func (c *TuningConfig) Validate() error {
	high := c.GetThresholdHigh()
	low := c.GetThresholdLow()
	if low >= high {
		return fmt.Errorf("threshold_low (%v) must be below threshold_high (%v)", low, high)
	}

	if margin := c.GetHysteresisMargin(); margin < 0 {
		return fmt.Errorf("hysteresis_margin must be non-negative, got %v", margin)
	}

	if d := c.GetMinDuration(); d < 0 {
		return fmt.Errorf("min_duration must be non-negative, got %v", d)
	}

	switch method := c.GetSmoothingMethod(); method {
	case timing.SmoothEMA, timing.SmoothWindow:
	default:
		return fmt.Errorf("unknown smoothing_method %q", method)
	}

	if alpha := c.GetSmoothingAlpha(); alpha <= 0 || alpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0, 1], got %v", alpha)
	}

	if size := c.GetWindowSize(); size < 1 {
		return fmt.Errorf("window_size must be at least 1, got %d", size)
	}

	for key := range c.MotionWeights {
		switch key {
		case WeightDisplacement, WeightVelocity, WeightAcceleration,
			WeightDirectionChange, WeightPoseChange:
		default:
			return fmt.Errorf("unknown motion_weights key %q", key)
		}
	}

	return nil
}

// GetThresholdHigh returns the threshold_high value or the default.
func (c *TuningConfig) GetThresholdHigh() float64 {
	if c.ThresholdHigh == nil {
		return 0.60
	}
	return *c.ThresholdHigh
}

// GetThresholdLow returns the threshold_low value or the default.
func (c *TuningConfig) GetThresholdLow() float64 {
	if c.ThresholdLow == nil {
		return 0.35
	}
	return *c.ThresholdLow
}

// GetHysteresisMargin returns the hysteresis_margin value or the default.
func (c *TuningConfig) GetHysteresisMargin() float64 {
	if c.HysteresisMargin == nil {
		return 0.05
	}
	return *c.HysteresisMargin
}

// GetMinDuration returns the min_duration value (seconds) or the default.
func (c *TuningConfig) GetMinDuration() float64 {
	if c.MinDuration == nil {
		return 0.08
	}
	return *c.MinDuration
}

// GetSmoothingMethod returns the smoothing_method value or the default.
func (c *TuningConfig) GetSmoothingMethod() string {
	if c.SmoothingMethod == nil || *c.SmoothingMethod == "" {
		return timing.SmoothEMA
	}
	return *c.SmoothingMethod
}

// GetSmoothingAlpha returns the smoothing_alpha value or the default.
func (c *TuningConfig) GetSmoothingAlpha() float64 {
	if c.SmoothingAlpha == nil {
		return 0.7
	}
	return *c.SmoothingAlpha
}

// GetWindowSize returns the window_size value or the default.
func (c *TuningConfig) GetWindowSize() int {
	if c.WindowSize == nil {
		return 3
	}
	return *c.WindowSize
}

// GetEnableTameTsume returns the enable_tame_tsume value or the default.
func (c *TuningConfig) GetEnableTameTsume() bool {
	if c.EnableTameTsume == nil {
		return false
	}
	return *c.EnableTameTsume
}

// GetAccelerationThreshold returns the acceleration_threshold value or
// the default.
func (c *TuningConfig) GetAccelerationThreshold() float64 {
	if c.AccelerationThreshold == nil {
		return 0.5
	}
	return *c.AccelerationThreshold
}

// GetMotionWeights folds the motion_weights map over the default
// weights; keys absent from the map keep their defaults.
func (c *TuningConfig) GetMotionWeights() motion.Weights {
	w := motion.DefaultWeights()
	for key, value := range c.MotionWeights {
		switch key {
		case WeightDisplacement:
			w.Displacement = value
		case WeightVelocity:
			w.Velocity = value
		case WeightAcceleration:
			w.Acceleration = value
		case WeightDirectionChange:
			w.DirectionChange = value
		case WeightPoseChange:
			w.PoseChange = value
		}
	}
	return w
}

// AnalysisParams resolves the config into the immutable parameter set
// consumed by the analyzer.
func (c *TuningConfig) AnalysisParams() analysis.Params {
	return analysis.Params{
		Weights: c.GetMotionWeights(),
		Timing: timing.Params{
			HighThreshold:    c.GetThresholdHigh(),
			LowThreshold:     c.GetThresholdLow(),
			HysteresisMargin: c.GetHysteresisMargin(),
			MinDuration:      c.GetMinDuration(),
			SmoothingMethod:  c.GetSmoothingMethod(),
			SmoothingAlpha:   c.GetSmoothingAlpha(),
			WindowSize:       c.GetWindowSize(),
			EnableAccents:    c.GetEnableTameTsume(),
			AccelThreshold:   c.GetAccelerationThreshold(),
		},
	}
}
