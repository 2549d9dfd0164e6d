// Package snapshot keeps day-granularity history of player stats with
// content-based dedup: a capture only writes a row when the fingerprint
// changed since the most recent stored snapshot.
package snapshot

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/rank"
)

const dayFormat = "2006-01-02"

// Repository is the persistence slice the store needs; satisfied by
// repository.SnapshotRepository and by in-memory doubles in tests.
type Repository interface {
	Insert(ctx context.Context, s *domain.Snapshot) error
	Latest(ctx context.Context, accountID string) (*domain.Snapshot, error)
	MostRecentAsOf(ctx context.Context, accountID, day string) (*domain.Snapshot, error)
	Since(ctx context.Context, accountID, day string) ([]domain.Snapshot, error)
	DeleteOlderThan(ctx context.Context, day string) (int64, error)
}

type Accounts interface {
	Get(ctx context.Context, db domain.Database, username string) (*domain.Account, error)
	GetOrCreate(ctx context.Context, db domain.Database, username string) (*domain.Account, error)
}

type Store struct {
	repo     Repository
	accounts Accounts
	calc     *rank.Calculator
	loc      *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

func NewStore(repo Repository, accounts Accounts, calc *rank.Calculator, cfg *config.Config, logger zerolog.Logger) *Store {
	return &Store{
		repo:     repo,
		accounts: accounts,
		calc:     calc,
		loc:      cfg.RefTimezone,
		now:      time.Now,
		logger:   logger,
	}
}

func (st *Store) day(t time.Time) string {
	return t.In(st.loc).Format(dayFormat)
}

// Capture stores today's snapshot for the account unless the stats are
// fingerprint-identical to the most recent stored one. Returns nil when
// nothing was written. Dedup is fingerprint-based only; the one-row-per-day
// invariant rests on callers scheduling at most one capture per account per
// day.
func (st *Store) Capture(ctx context.Context, db domain.Database, username string, stats domain.Stats) (*domain.Snapshot, error) {
	acc, err := st.accounts.GetOrCreate(ctx, db, username)
	if err != nil {
		return nil, err
	}

	fp := Fingerprint(db, username, stats)
	latest, err := st.repo.Latest(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Fingerprint == fp {
		st.logger.Debug().Str("db", string(db)).Str("username", username).Msg("stats unchanged, snapshot skipped")
		return nil, nil
	}

	now := st.now()
	day := st.day(now)

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate snapshot id: %w", err)
	}

	snap := &domain.Snapshot{
		ID:          id,
		AccountID:   acc.ID,
		CapturedDay: day,
		CapturedAt:  now,
		Fingerprint: fp,
		Stats:       stats,
	}
	if err := st.repo.Insert(ctx, snap); err != nil {
		return nil, err
	}

	st.logger.Info().Str("db", string(db)).Str("username", username).Str("day", day).Msg("snapshot stored")
	return snap, nil
}

// MostRecentAsOf returns the latest snapshot captured on or before the given
// date, or nil for an unknown account or an empty window.
func (st *Store) MostRecentAsOf(ctx context.Context, db domain.Database, username string, date time.Time) (*domain.Snapshot, error) {
	acc, err := st.accounts.Get(ctx, db, username)
	if err != nil || acc == nil {
		return nil, err
	}
	return st.repo.MostRecentAsOf(ctx, acc.ID, st.day(date))
}

// Series returns the account's snapshots from since to now, newest first.
// Each point carries a rank-up marker computed against the chronologically
// previous snapshot (including the one just before the window, if any).
func (st *Store) Series(ctx context.Context, db domain.Database, username string, since time.Time) ([]domain.SeriesPoint, error) {
	acc, err := st.accounts.Get(ctx, db, username)
	if err != nil || acc == nil {
		return nil, err
	}

	snaps, err := st.repo.Since(ctx, acc.ID, st.day(since))
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}

	prevRankID := 0
	baseline, err := st.repo.MostRecentAsOf(ctx, acc.ID, st.day(since.AddDate(0, 0, -1)))
	if err != nil {
		return nil, err
	}
	if baseline != nil {
		prevRankID = st.calc.ForXP(db, baseline.XP).ID
	}

	points := make([]domain.SeriesPoint, len(snaps))
	for i, s := range snaps {
		rankID := st.calc.ForXP(db, s.XP).ID
		points[i] = domain.SeriesPoint{
			Snapshot: s,
			RankUp:   prevRankID != 0 && rankID > prevRankID,
		}
		prevRankID = rankID
	}

	// newest first
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// PlayerAt reconstructs a historical Player from a stored snapshot, through
// the same constructor path live parsing uses.
func (st *Store) PlayerAt(acc *domain.Account, snap *domain.Snapshot) *domain.Player {
	p := domain.NewPlayer(acc.Database, acc.Username, snap.Stats)
	st.calc.Apply(p)
	return p
}

// Account exposes the durable identity lookup for consumers that need it
// alongside snapshot queries.
func (st *Store) Account(ctx context.Context, db domain.Database, username string) (*domain.Account, error) {
	return st.accounts.Get(ctx, db, username)
}

// PurgeOlderThan deletes snapshots captured before cutoff; housekeeping only.
func (st *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return st.repo.DeleteOlderThan(ctx, st.day(cutoff))
}
