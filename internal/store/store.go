// Package store persists completed analyses to sqlite so past runs can
// be inspected, re-reported, or compared after the fact.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/sakuga-tools/retimer/internal/analysis"
	"github.com/sakuga-tools/retimer/internal/monitoring"
)

//go:embed migrations
var migrationsFS embed.FS

// Store wraps the sqlite database holding analysis results.
type Store struct {
	*sql.DB
}

// Open opens (or creates) the analysis database at path and brings the
// schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrateUp runs all pending embedded migrations.
func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	// Note: the migrate instance is not closed; closing it would close
	// the underlying DB connection.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		monitoring.Logf("analysis store schema migrated")
	}
	return nil
}

// SaveResult persists a completed analysis and its per-frame records in
// one transaction.
func (s *Store) SaveResult(res *analysis.Result) error {
	paramsJSON, err := json.Marshal(res.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO analyses (analysis_id, source_video_path, output_video_path, params_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		res.ID, res.SourcePath, res.OutputPath, string(paramsJSON), res.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO analysis_frames
			(analysis_id, frame_index, frame_timestamp, intensity, smoothed_intensity,
			 motion_state, timing_multiplier, is_tame, is_tsume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range res.Frames {
		_, err = stmt.Exec(res.ID, f.Index, f.Timestamp, f.Intensity, f.Smoothed,
			f.State, f.TimingMultiplier, boolToInt(f.Tame), boolToInt(f.Tsume))
		if err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", f.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	monitoring.Logf("saved analysis %s (%d frames)", res.ID, len(res.Frames))
	return nil
}

// GetResult loads a persisted analysis and its frames by id.
func (s *Store) GetResult(id string) (*analysis.Result, error) {
	res := &analysis.Result{ID: id}

	var paramsJSON sql.NullString
	var createdAt int64
	err := s.QueryRow(`
		SELECT source_video_path, output_video_path, params_json, created_at
		FROM analyses WHERE analysis_id = ?`, id).
		Scan(&res.SourcePath, &res.OutputPath, &paramsJSON, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	res.CreatedAt = time.Unix(0, createdAt).UTC()

	if paramsJSON.Valid && paramsJSON.String != "" {
		if err := json.Unmarshal([]byte(paramsJSON.String), &res.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params for %s: %w", id, err)
		}
	}

	rows, err := s.Query(`
		SELECT frame_index, frame_timestamp, intensity, smoothed_intensity,
		       motion_state, timing_multiplier, is_tame, is_tsume
		FROM analysis_frames WHERE analysis_id = ? ORDER BY frame_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load frames for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var f analysis.FrameRecord
		var tame, tsume int
		if err := rows.Scan(&f.Index, &f.Timestamp, &f.Intensity, &f.Smoothed,
			&f.State, &f.TimingMultiplier, &tame, &tsume); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		f.Tame = tame != 0
		f.Tsume = tsume != 0
		res.Frames = append(res.Frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frames: %w", err)
	}

	return res, nil
}

// AnalysisSummary is one row of ListResults: run metadata without the
// per-frame payload.
type AnalysisSummary struct {
	ID         string
	SourcePath string
	OutputPath string
	CreatedAt  time.Time
	FrameCount int
}

// ListResults returns the most recent analyses, newest first.
func (s *Store) ListResults(limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.Query(`
		SELECT a.analysis_id, a.source_video_path, a.output_video_path, a.created_at,
		       COUNT(f.frame_index)
		FROM analyses a
		LEFT JOIN analysis_frames f ON f.analysis_id = a.analysis_id
		GROUP BY a.analysis_id
		ORDER BY a.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var sum AnalysisSummary
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.SourcePath, &sum.OutputPath, &createdAt, &sum.FrameCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		sum.CreatedAt = time.Unix(0, createdAt).UTC()
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
