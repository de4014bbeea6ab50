package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// VerdictStore persists verdict records. Panel verdicts and key points
// are stored as JSON columns; the record is written once and read back
// whole, so no relational access to individual panel rows is needed.
type VerdictStore struct {
	db *DB
}

var _ ports.VerdictStore = (*VerdictStore)(nil)

// NewVerdictStore builds a VerdictStore over an open database.
func NewVerdictStore(db *DB) *VerdictStore { return &VerdictStore{db: db} }

// InsertVerdict writes a new record and returns its generated ID.
func (s *VerdictStore) InsertVerdict(ctx context.Context, record domain.VerdictRecord) (string, error) {
	if record.ID == "" {
		record.ID = newULID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	panelJSON, err := json.Marshal(record.PanelVerdicts)
	if err != nil {
		return "", ports.NewStoreError("verdict", "insert", err)
	}
	keyPointsJSON, err := json.Marshal(record.KeyPoints)
	if err != nil {
		return "", ports.NewStoreError("verdict", "insert", err)
	}

	_, err = s.db.db.ExecContext(ctx,
		`INSERT INTO verdicts (id, situation, mode, panel_verdicts, synthesis, dissent, panel_split,
			verdict, confidence, summary, reasoning, key_points, share_id, is_public, is_pro,
			user_id, visitor_id, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Situation, string(record.Mode), string(panelJSON),
		record.Synthesis, record.Dissent, record.PanelSplit,
		string(record.Verdict), record.Confidence, record.Summary, record.Reasoning,
		string(keyPointsJSON), record.ShareID, boolToInt(record.IsPublic), boolToInt(record.IsPro),
		nullString(record.UserID), nullString(record.VisitorID),
		record.LatencyMs, record.CreatedAt,
	)
	if err != nil {
		return "", ports.NewStoreError("verdict", "insert", err)
	}
	return record.ID, nil
}

// GetByShareID looks up a record by its share token.
func (s *VerdictStore) GetByShareID(ctx context.Context, shareID string) (domain.VerdictRecord, error) {
	row := s.db.db.QueryRowContext(ctx, verdictSelect+" WHERE share_id = ?", shareID)
	record, err := scanVerdict(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VerdictRecord{}, fmt.Errorf("%w: shareId %s", ports.ErrNotFound, shareID)
	}
	if err != nil {
		return domain.VerdictRecord{}, ports.NewStoreError("verdict", "get", err)
	}
	return record, nil
}

// ListByUser returns a user's records, newest first.
func (s *VerdictStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.VerdictRecord, error) {
	return s.list(ctx,
		verdictSelect+" WHERE user_id = ? ORDER BY created_at DESC LIMIT ?", userID, listLimit(limit))
}

// ListRecentPublic returns public records, newest first.
func (s *VerdictStore) ListRecentPublic(ctx context.Context, limit int) ([]domain.VerdictRecord, error) {
	return s.list(ctx,
		verdictSelect+" WHERE is_public = 1 ORDER BY created_at DESC LIMIT ?", listLimit(limit))
}

const defaultListLimit = 20

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

const verdictSelect = `SELECT id, situation, mode, panel_verdicts, synthesis, dissent, panel_split,
	verdict, confidence, summary, reasoning, key_points, share_id, is_public, is_pro,
	user_id, visitor_id, latency_ms, created_at
	FROM verdicts`

func (s *VerdictStore) list(ctx context.Context, query string, args ...any) ([]domain.VerdictRecord, error) {
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ports.NewStoreError("verdict", "list", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.VerdictRecord
	for rows.Next() {
		record, err := scanVerdict(rows)
		if err != nil {
			return nil, ports.NewStoreError("verdict", "list", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerdict(row rowScanner) (domain.VerdictRecord, error) {
	var (
		record            domain.VerdictRecord
		mode, verdict     string
		panelJSON         string
		keyPointsJSON     string
		userID, visitorID sql.NullString
		isPublic, isPro   int
	)

	err := row.Scan(&record.ID, &record.Situation, &mode, &panelJSON,
		&record.Synthesis, &record.Dissent, &record.PanelSplit,
		&verdict, &record.Confidence, &record.Summary, &record.Reasoning,
		&keyPointsJSON, &record.ShareID, &isPublic, &isPro,
		&userID, &visitorID, &record.LatencyMs, &record.CreatedAt)
	if err != nil {
		return domain.VerdictRecord{}, err
	}

	record.Mode = domain.Mode(mode)
	record.Verdict = domain.VerdictCode(verdict)
	record.IsPublic = isPublic == 1
	record.IsPro = isPro == 1
	record.UserID = userID.String
	record.VisitorID = visitorID.String

	if err := json.Unmarshal([]byte(panelJSON), &record.PanelVerdicts); err != nil {
		return domain.VerdictRecord{}, fmt.Errorf("decode panel verdicts: %w", err)
	}
	if err := json.Unmarshal([]byte(keyPointsJSON), &record.KeyPoints); err != nil {
		return domain.VerdictRecord{}, fmt.Errorf("decode key points: %w", err)
	}
	return record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
