// runs.go - Trainingsläufe anlegen, protokollieren und auflisten
// Enthält: RunConfig, Run (train.Observer), Runs, Validations

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/spanqa/spanqa/metrics"
	"github.com/spanqa/spanqa/train"
)

// Status-Werte eines Laufs
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusFailed    = "failed"
)

// RunConfig sind die Parameter, mit denen ein Lauf gestartet wurde
type RunConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Order        string
	Seed         uint64
	DataDir      string
}

// RunInfo ist eine Zeile der Lauf-Übersicht
type RunInfo struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	RunConfig
	Snapshots int
	// BestF1 ist der höchste Validierungs-F1, NaN ohne Validierung
	BestF1 float64
}

// ValidationRow ist eine gespeicherte Validierung
type ValidationRow struct {
	Epoch int
	train.Validation
}

// Run protokolliert einen laufenden Trainingslauf und implementiert train.Observer
type Run struct {
	ID    string
	store *Store
}

var _ train.Observer = (*Run)(nil)

// BeginRun legt einen neuen Lauf mit zufälliger ID an
func (s *Store) BeginRun(cfg RunConfig) (*Run, error) {
	id := uuid.New().String()
	_, err := s.conn.Exec(`
		INSERT INTO runs (id, started_at, status, epochs, batch_size, learning_rate, order_mode, seed, data_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), StatusRunning, cfg.Epochs, cfg.BatchSize, cfg.LearningRate, cfg.Order,
		int64(cfg.Seed), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// ObserveSnapshot speichert einen Snapshot
func (r *Run) ObserveSnapshot(epoch, step int, m metrics.Snapshot) error {
	_, err := r.store.conn.Exec(`
		INSERT INTO snapshots (run_id, epoch, step, loss, em, f1, grad_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, epoch, step, nullable(m.Loss), nullable(m.EM), nullable(m.F1), nullable(m.GradNorm))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ObserveValidation speichert das Ergebnis einer Validierung
func (r *Run) ObserveValidation(epoch int, v train.Validation) error {
	_, err := r.store.conn.Exec(`
		INSERT OR REPLACE INTO validations (run_id, epoch, loss, em, f1)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, epoch, nullable(v.Loss), nullable(v.EM), nullable(v.F1))
	if err != nil {
		return fmt.Errorf("insert validation: %w", err)
	}
	return nil
}

// Finish setzt Endzeit und Status aus dem Ergebnis von train.Loop.Run
func (r *Run) Finish(runErr error) error {
	status := StatusCompleted
	switch {
	case errors.Is(runErr, context.Canceled):
		status = StatusCanceled
	case runErr != nil:
		status = StatusFailed
	}

	_, err := r.store.conn.Exec("UPDATE runs SET finished_at = ?, status = ? WHERE id = ?",
		time.Now().UTC(), status, r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Runs listet alle Läufe, neueste zuerst
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.conn.Query(`
		SELECT r.id, r.started_at, r.finished_at, r.status, r.epochs, r.batch_size, r.learning_rate,
			r.order_mode, r.seed, r.data_dir,
			(SELECT COUNT(*) FROM snapshots WHERE run_id = r.id),
			(SELECT MAX(f1) FROM validations WHERE run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info     RunInfo
			finished sql.NullTime
			seed     int64
			best     sql.NullFloat64
		)
		if err := rows.Scan(&info.ID, &info.StartedAt, &finished, &info.Status, &info.Epochs,
			&info.BatchSize, &info.LearningRate, &info.Order, &seed, &info.DataDir,
			&info.Snapshots, &best); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.FinishedAt = finished.Time
		info.Seed = uint64(seed)
		info.BestF1 = value(best)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Validations gibt die Validierungen eines Laufs in Epochen-Reihenfolge zurück
func (s *Store) Validations(runID string) ([]ValidationRow, error) {
	rows, err := s.conn.Query(
		"SELECT epoch, loss, em, f1 FROM validations WHERE run_id = ? ORDER BY epoch", runID)
	if err != nil {
		return nil, fmt.Errorf("query validations: %w", err)
	}
	defer rows.Close()

	var out []ValidationRow
	for rows.Next() {
		var (
			row          ValidationRow
			loss, em, f1 sql.NullFloat64
		)
		if err := rows.Scan(&row.Epoch, &loss, &em, &f1); err != nil {
			return nil, fmt.Errorf("scan validation: %w", err)
		}
		row.Loss, row.EM, row.F1 = value(loss), value(em), value(f1)
		out = append(out, row)
	}
	return out, rows.Err()
}

// nullable speichert NaN als NULL, SQLite kennt kein NaN
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
