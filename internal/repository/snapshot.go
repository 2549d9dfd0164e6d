package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"frontline-tracker/internal/constants"
	"frontline-tracker/internal/domain"
)

const snapshotColumns = `id, account_id, captured_day, captured_at, fingerprint,
	position, kills, deaths, team_kills, streak, destroyed, healed, shots,
	throws, distance_km, time_played, xp`

type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(db *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

func (r *SnapshotRepository) Insert(ctx context.Context, s *domain.Snapshot) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (`+snapshotColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.CapturedDay, s.CapturedAt,
		strconv.FormatUint(s.Fingerprint, 16),
		s.Position, s.Kills, s.Deaths, s.TeamKills, s.Streak,
		s.Destroyed, s.Healed, s.Shots, s.Throws, s.DistanceKm,
		s.TimePlayed, s.XP)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently captured snapshot for the account, or nil.
func (r *SnapshotRepository) Latest(ctx context.Context, accountID string) (*domain.Snapshot, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE account_id = ? ORDER BY captured_day DESC, captured_at DESC LIMIT 1`, accountID)
	return scanSnapshot(row)
}

// MostRecentAsOf returns the latest snapshot captured on or before day, or nil.
func (r *SnapshotRepository) MostRecentAsOf(ctx context.Context, accountID, day string) (*domain.Snapshot, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE account_id = ? AND captured_day <= ?
		 ORDER BY captured_day DESC, captured_at DESC LIMIT 1`, accountID, day)
	return scanSnapshot(row)
}

// Since returns all snapshots captured on or after day, oldest first.
func (r *SnapshotRepository) Since(ctx context.Context, accountID, day string) ([]domain.Snapshot, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE account_id = ? AND captured_day >= ?
		 ORDER BY captured_day ASC, captured_at ASC`, accountID, day)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// DeleteOlderThan removes snapshots captured strictly before day and reports
// how many rows went away. Used by the housekeeping purge only.
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, day string) (int64, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE captured_day < ?`, day)
	if err != nil {
		return 0, fmt.Errorf("delete snapshots: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted snapshots: %w", err)
	}
	if deleted > 0 {
		r.logger.Info().Int64("deleted", deleted).Str("before", day).Msg("old snapshots purged")
	}
	return deleted, nil
}

// bounded caps every snapshot query at the database timeout.
func bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.DatabaseTimeout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var fingerprint string
	err := row.Scan(&s.ID, &s.AccountID, &s.CapturedDay, &s.CapturedAt, &fingerprint,
		&s.Position, &s.Kills, &s.Deaths, &s.TeamKills, &s.Streak,
		&s.Destroyed, &s.Healed, &s.Shots, &s.Throws, &s.DistanceKm,
		&s.TimePlayed, &s.XP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	s.Fingerprint, err = strconv.ParseUint(fingerprint, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("parse stored fingerprint %q: %w", fingerprint, err)
	}
	return &s, nil
}
