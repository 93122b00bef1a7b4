// Command retimer analyses a tracked landmark sequence and emits the
// per-frame timing decisions an external frame-repetition writer needs
// to re-encode the footage with animation-style timing.
//
// The input is the JSON produced by the external pose detector: the
// source frame rate and one landmark list per frame. The output is a
// JSON document instructing the writer to emit each source frame exactly
// timing_multiplier times, in order, at the source frame rate. A single
// machine-readable status envelope is printed on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sakuga-tools/retimer/internal/analysis"
	"github.com/sakuga-tools/retimer/internal/config"
	"github.com/sakuga-tools/retimer/internal/report"
	"github.com/sakuga-tools/retimer/internal/store"
	"github.com/sakuga-tools/retimer/internal/timing"
	"github.com/sakuga-tools/retimer/internal/version"
)

var (
	inputPath   = flag.String("input", "", "Path to the landmark sequence JSON from the pose detector")
	outputPath  = flag.String("output", "", "Path for the timing decisions JSON consumed by the frame writer")
	configArg   = flag.String("config", "", "Tuning config: path to a .json file or an inline JSON object")
	dbPath      = flag.String("db", "", "Optional sqlite database to persist the analysis into")
	reportPath  = flag.String("report", "", "Optional path for an HTML intensity report")
	plotPath    = flag.String("plot", "", "Optional path for a PNG intensity plot")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// landmarkSequence is the detector handoff document.
type landmarkSequence struct {
	SourceVideoPath string                      `json:"source_video_path"`
	FPS             float64                     `json:"fps"`
	Frames          []analysis.FrameObservation `json:"frames"`
}

// decisionsDocument is what the external frame-repetition writer reads.
type decisionsDocument struct {
	AnalysisID      string                       `json:"analysis_id"`
	SourceVideoPath string                       `json:"source_video_path"`
	FPS             float64                      `json:"fps"`
	Decisions       []timing.FrameTimingDecision `json:"decisions"`
}

// statusEnvelope is the single JSON object printed on stdout.
type statusEnvelope struct {
	Status     string `json:"status"`
	OutputPath string `json:"output_path,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	Message    string `json:"message"`
	ErrorType  string `json:"error_type,omitempty"`
}

func emit(env statusEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Fatalf("failed to marshal status: %v", err)
	}
	fmt.Println(string(data))
}

func fail(errorType, format string, args ...any) {
	emit(statusEnvelope{
		Status:    "error",
		ErrorType: errorType,
		Message:   fmt.Sprintf(format, args...),
	})
	os.Exit(1)
}

// resolveConfig loads the tuning config from a file path or an inline
// JSON object; an empty argument yields all defaults.
func resolveConfig(arg string) (*config.TuningConfig, error) {
	if arg == "" {
		return config.EmptyTuningConfig(), nil
	}
	if strings.HasPrefix(strings.TrimSpace(arg), "{") {
		return config.ParseTuningConfig([]byte(arg))
	}
	return config.LoadTuningConfig(arg)
}

// loadSequence reads and validates the detector output. Frames with a
// zero timestamp (other than the first) get one derived from their index
// and the sequence frame rate.
func loadSequence(path string) (*landmarkSequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var seq landmarkSequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	if len(seq.Frames) == 0 {
		return nil, fmt.Errorf("input contains no frames")
	}
	if seq.FPS <= 0 {
		return nil, fmt.Errorf("input fps must be positive, got %v", seq.FPS)
	}

	for i := range seq.Frames {
		if seq.Frames[i].Timestamp == 0 && i > 0 {
			seq.Frames[i].Timestamp = float64(seq.Frames[i].Index) / seq.FPS
		}
	}
	return &seq, nil
}

func writeDecisions(path string, doc decisionsDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decisions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write decisions: %w", err)
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)

	if *showVersion {
		fmt.Printf("retimer %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *inputPath == "" {
		fail("ValidationError", "input landmark sequence path is required")
	}
	if *outputPath == "" {
		fail("ValidationError", "output decisions path is required")
	}

	cfg, err := resolveConfig(*configArg)
	if err != nil {
		fail("ConfigError", "%v", err)
	}

	seq, err := loadSequence(*inputPath)
	if err != nil {
		fail("InputError", "%v", err)
	}

	analyzer := analysis.NewAnalyzer(cfg.AnalysisParams())
	result, err := analyzer.Analyze(seq.Frames)
	if err != nil {
		fail("AnalysisError", "%v", err)
	}
	result.SourcePath = seq.SourceVideoPath
	result.OutputPath = *outputPath
	log.Printf("analysed %d frames from %s", len(result.Frames), *inputPath)

	doc := decisionsDocument{
		AnalysisID:      result.ID,
		SourceVideoPath: seq.SourceVideoPath,
		FPS:             seq.FPS,
		Decisions:       result.Decisions(),
	}
	if err := writeDecisions(*outputPath, doc); err != nil {
		fail("OutputError", "%v", err)
	}

	var databaseID string
	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			fail("StoreError", "%v", err)
		}
		defer s.Close()

		if err := s.SaveResult(result); err != nil {
			fail("StoreError", "%v", err)
		}
		databaseID = result.ID
		log.Printf("persisted analysis %s to %s", result.ID, *dbPath)
	}

	if *reportPath != "" {
		if err := report.SaveHTML(*reportPath, result); err != nil {
			fail("ReportError", "%v", err)
		}
		log.Printf("wrote report to %s", *reportPath)
	}
	if *plotPath != "" {
		if err := report.SavePNG(*plotPath, result); err != nil {
			fail("ReportError", "%v", err)
		}
		log.Printf("wrote plot to %s", *plotPath)
	}

	emit(statusEnvelope{
		Status:     "success",
		OutputPath: *outputPath,
		DatabaseID: databaseID,
		Message:    fmt.Sprintf("Processed %d frames.", len(result.Frames)),
	})
}
