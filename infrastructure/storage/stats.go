package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// ModelStatsStore maintains per-model verdict distributions. The
// read-modify-write upsert runs inside one transaction so concurrent
// pipeline runs cannot lose counts.
type ModelStatsStore struct {
	db *DB
}

var _ ports.ModelStatsStore = (*ModelStatsStore)(nil)

// NewModelStatsStore builds a ModelStatsStore over an open database.
func NewModelStatsStore(db *DB) *ModelStatsStore { return &ModelStatsStore{db: db} }

// RecordVerdict counts one verdict for the model and recomputes its
// leniency score. A fresh row is created on the model's first verdict.
func (s *ModelStatsStore) RecordVerdict(ctx context.Context, modelID, modelName string, verdict domain.VerdictCode) error {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.NewStoreError("model_stats", "record", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := domain.ModelStats{ModelID: modelID, ModelName: modelName}
	err = tx.QueryRowContext(ctx,
		`SELECT total_verdicts, yta_count, nta_count, esh_count, nah_count, info_count
		FROM model_stats WHERE model_id = ?`, modelID,
	).Scan(&stats.TotalVerdicts, &stats.YTACount, &stats.NTACount,
		&stats.ESHCount, &stats.NAHCount, &stats.INFOCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ports.NewStoreError("model_stats", "record", err)
	}

	updated := stats.AddVerdict(verdict)
	updated.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO model_stats (model_id, model_name, total_verdicts,
			yta_count, nta_count, esh_count, nah_count, info_count, leniency_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(model_id) DO UPDATE SET
			model_name=excluded.model_name,
			total_verdicts=excluded.total_verdicts,
			yta_count=excluded.yta_count,
			nta_count=excluded.nta_count,
			esh_count=excluded.esh_count,
			nah_count=excluded.nah_count,
			info_count=excluded.info_count,
			leniency_score=excluded.leniency_score,
			updated_at=excluded.updated_at`,
		updated.ModelID, updated.ModelName, updated.TotalVerdicts,
		updated.YTACount, updated.NTACount, updated.ESHCount,
		updated.NAHCount, updated.INFOCount, updated.LeniencyScore, updated.UpdatedAt,
	)
	if err != nil {
		return ports.NewStoreError("model_stats", "record", err)
	}

	if err := tx.Commit(); err != nil {
		return ports.NewStoreError("model_stats", "record", err)
	}
	return nil
}

// Leaderboard returns stats rows ordered from most to least lenient.
func (s *ModelStatsStore) Leaderboard(ctx context.Context, limit int) ([]domain.ModelStats, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT model_id, model_name, total_verdicts, yta_count, nta_count,
			esh_count, nah_count, info_count, leniency_score, updated_at
		FROM model_stats ORDER BY leniency_score DESC, model_name LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, ports.NewStoreError("model_stats", "leaderboard", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []domain.ModelStats
	for rows.Next() {
		var row domain.ModelStats
		if err := rows.Scan(&row.ModelID, &row.ModelName, &row.TotalVerdicts,
			&row.YTACount, &row.NTACount, &row.ESHCount, &row.NAHCount,
			&row.INFOCount, &row.LeniencyScore, &row.UpdatedAt); err != nil {
			return nil, ports.NewStoreError("model_stats", "leaderboard", err)
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}
