// Package rank resolves XP values against the per-database threshold tables.
// All functions are pure lookups over the reference data.
package rank

import (
	"math"

	"go.uber.org/fx"

	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/refdata"
)

type Calculator struct {
	tables *refdata.Tables
}

func NewCalculator(tables *refdata.Tables) *Calculator {
	return &Calculator{tables: tables}
}

// ForXP returns the highest rank whose threshold is <= xp. The tables start
// at threshold zero, so every non-negative XP value resolves.
func (c *Calculator) ForXP(db domain.Database, xp int) domain.Rank {
	ranks := c.tables.Ranks(db)
	current := ranks[0]
	for _, r := range ranks {
		if r.XPThreshold > xp {
			break
		}
		current = r
	}
	return current
}

// Next returns the rank with id+1 in the same database's table, or nil at the
// top of that ladder. Table lengths differ between databases.
func (c *Calculator) Next(db domain.Database, r domain.Rank) *domain.Rank {
	ranks := c.tables.Ranks(db)
	for i := range ranks {
		if ranks[i].ID == r.ID+1 {
			next := ranks[i]
			return &next
		}
	}
	return nil
}

// Apply resolves the player's current rank, next rank and progression in
// place. At the terminal rank the progression is zero, not an error.
func (c *Calculator) Apply(p *domain.Player) {
	p.Rank = c.ForXP(p.Database, p.XP)
	p.NextRank = c.Next(p.Database, p.Rank)
	if p.NextRank == nil {
		p.Progress = domain.Progress{}
		return
	}
	p.Progress = domain.Progress{
		XPToNext: p.NextRank.XPThreshold - p.XP,
		Percent:  math.Round(float64(p.XP)*100/float64(p.NextRank.XPThreshold)*100) / 100,
	}
}

var Module = fx.Provide(NewCalculator)
