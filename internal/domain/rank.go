package domain

// Database identifies one of the two independent stats universes tracked
// upstream. It is not a storage reference.
type Database string

const (
	DatabaseMain Database = "main"
	DatabasePro  Database = "pro"
)

func Databases() []Database {
	return []Database{DatabaseMain, DatabasePro}
}

func (d Database) Valid() bool {
	return d == DatabaseMain || d == DatabasePro
}

// Rank is one entry of a database's ordered threshold table. Tables differ in
// length between databases; the pro ladder tops out one rank early.
type Rank struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	XPThreshold int    `json:"xp_threshold"`
}

// Progress describes how far a player is into the next rank. Both fields are
// zero at the highest attainable rank.
type Progress struct {
	XPToNext int     `json:"xp_to_next"`
	Percent  float64 `json:"percent"`
}
