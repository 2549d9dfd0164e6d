package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"frontline-tracker/internal/constants"
	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/snapshot"
)

// Capture is the scheduled sweep that feeds the snapshot store from the top
// of both leaderboards. Databases run concurrently; within one database
// accounts are captured sequentially, once per sweep.
type Capture struct {
	tracker *Tracker
	store   *snapshot.Store
	logger  zerolog.Logger
}

func NewCapture(tracker *Tracker, store *snapshot.Store, logger zerolog.Logger) *Capture {
	return &Capture{tracker: tracker, store: store, logger: logger}
}

func (c *Capture) Run(ctx context.Context) error {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, db := range domain.Databases() {
		g.Go(func() error {
			return c.sweep(gctx, db)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -constants.SnapshotRetentionDays)
	deleted, err := c.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		c.logger.Error().Err(err).Msg("snapshot purge failed")
		return err
	}

	c.logger.Info().
		Int64("purged", deleted).
		Dur("duration", time.Since(start)).
		Msg("capture sweep completed")
	return nil
}

func (c *Capture) sweep(ctx context.Context, db domain.Database) error {
	players, err := c.tracker.Players(ctx, db, "xp", "", 0, constants.CaptureDepth)
	if err != nil {
		c.logger.Error().Err(err).Str("db", string(db)).Msg("capture sweep fetch failed")
		return err
	}

	stored, failed := 0, 0
	for _, p := range players {
		snap, err := c.store.Capture(ctx, db, p.Username, p.Stats)
		if err != nil {
			c.logger.Warn().Err(err).Str("db", string(db)).Str("username", p.Username).Msg("capture failed")
			failed++
			continue
		}
		if snap != nil {
			stored++
		}
	}

	c.logger.Info().
		Str("db", string(db)).
		Int("players", len(players)).
		Int("stored", stored).
		Int("failed", failed).
		Msg("database sweep done")
	return nil
}
