package domain

import "time"

// Account is the durable identity a snapshot history hangs off. It exists
// independently of any live Player row.
type Account struct {
	ID        string    `json:"id"`
	Database  Database  `json:"database"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is one day-bucketed, immutable capture of an account's stats.
// CapturedDay is a YYYY-MM-DD string in the reference timezone; the
// fingerprint covers the account identity and all numeric fields, never the
// capture date.
type Snapshot struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	CapturedDay string    `json:"captured_day"`
	CapturedAt  time.Time `json:"captured_at"`
	Fingerprint uint64    `json:"-"`
	Stats
}

// SeriesPoint is a snapshot annotated for time-series output. RankUp marks
// captures that coincided with a rank promotion.
type SeriesPoint struct {
	Snapshot
	RankUp bool `json:"rank_up"`
}
