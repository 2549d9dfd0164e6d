package snapshot

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"frontline-tracker/internal/domain"
)

// Fingerprint hashes the account identity and every numeric stat field in a
// fixed order. The capture date is deliberately excluded so an unchanged stat
// block fingerprints identically on any day. Stable across runs and processes.
func Fingerprint(db domain.Database, username string, s domain.Stats) uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%d|%d|%d|%d|%d|%d|%d|%.3f|%d|%d",
		db, username,
		s.Position, s.Kills, s.Deaths, s.TeamKills, s.Streak,
		s.Destroyed, s.Healed, s.Shots, s.Throws,
		s.DistanceKm, s.TimePlayed, s.XP)
	return h.Sum64()
}
