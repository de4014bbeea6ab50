package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// Default free-tier daily quotas per identifier.
const (
	DefaultSingleLimit = 10
	DefaultPanelLimit  = 3
)

// RateLimits holds the per-mode daily quotas.
type RateLimits struct {
	Single int
	Panel  int
}

// DefaultRateLimits returns the free-tier quotas.
func DefaultRateLimits() RateLimits {
	return RateLimits{Single: DefaultSingleLimit, Panel: DefaultPanelLimit}
}

// RateLimiter enforces daily per-identifier quotas keyed by UTC date.
// The check and the increment run in one transaction over a single
// connection, so two racing requests for the last slot cannot both be
// allowed. Bypassed requests still increment their counter; usage is
// tracked for everyone.
type RateLimiter struct {
	db     *DB
	limits RateLimits
	// now is swappable for date-rollover tests.
	now func() time.Time
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

// NewRateLimiter builds a RateLimiter. Zero-valued limits fall back to
// the defaults.
func NewRateLimiter(db *DB, limits RateLimits) *RateLimiter {
	if limits.Single <= 0 {
		limits.Single = DefaultSingleLimit
	}
	if limits.Panel <= 0 {
		limits.Panel = DefaultPanelLimit
	}
	return &RateLimiter{db: db, limits: limits, now: time.Now}
}

// CheckAndIncrement records one use for the identifier and reports
// whether the request may proceed.
func (r *RateLimiter) CheckAndIncrement(ctx context.Context, identifier string, mode domain.Mode, bypass bool) (ports.RateDecision, error) {
	date := r.now().UTC().Format("2006-01-02")

	limit := r.limits.Panel
	column := "panel_count"
	if mode == domain.ModeSingle {
		limit = r.limits.Single
		column = "single_count"
	}

	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.RateDecision{}, ports.NewStoreError("daily_usage", "check", err)
	}
	defer func() { _ = tx.Rollback() }()

	var used int
	err = tx.QueryRowContext(ctx,
		"SELECT "+column+" FROM daily_usage WHERE identifier = ? AND date = ?",
		identifier, date).Scan(&used)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ports.RateDecision{}, ports.NewStoreError("daily_usage", "check", err)
	}

	if !bypass && used >= limit {
		return ports.RateDecision{Allowed: false, Remaining: 0}, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_usage (identifier, date, single_count, panel_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(identifier, date) DO UPDATE SET `+column+" = "+column+" + 1",
		identifier, date,
		boolToInt(mode == domain.ModeSingle), boolToInt(mode == domain.ModePanel))
	if err != nil {
		return ports.RateDecision{}, ports.NewStoreError("daily_usage", "increment", err)
	}

	if err := tx.Commit(); err != nil {
		return ports.RateDecision{}, ports.NewStoreError("daily_usage", "increment", err)
	}

	if bypass {
		return ports.RateDecision{Allowed: true, Remaining: -1}, nil
	}
	return ports.RateDecision{Allowed: true, Remaining: limit - used - 1}, nil
}

// Usage reports today's recorded counts for an identifier.
func (r *RateLimiter) Usage(ctx context.Context, identifier string) (single, panel int, err error) {
	date := r.now().UTC().Format("2006-01-02")
	err = r.db.db.QueryRowContext(ctx,
		"SELECT single_count, panel_count FROM daily_usage WHERE identifier = ? AND date = ?",
		identifier, date).Scan(&single, &panel)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, ports.NewStoreError("daily_usage", "usage", err)
	}
	return single, panel, nil
}
