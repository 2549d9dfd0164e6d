package constants

import "time"

const (
	ServerListTTL   = 1 * time.Minute
	PlayerListTTL   = 5 * time.Minute
	PlayerSearchTTL = 2 * time.Minute
)

const (
	FetchTimeout    = 5 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// ServerListPageSize is the upstream cursor size; the feed caps pages at 100.
	ServerListPageSize = 100

	// CaptureDepth is how many leaderboard rows per database the daily
	// capture sweep walks.
	CaptureDepth = 100

	// SnapshotRetentionDays is how long snapshots are kept before the
	// housekeeping purge removes them.
	SnapshotRetentionDays = 365
)
