package refdata

import "frontline-tracker/internal/domain"

// Realm strings the master service hands out. Ranked realms are a subset of
// the official ones; anything unknown is a community server.
var (
	officialRealms = []string{"official", "pro", "event"}
	rankedRealms   = []string{"official", "pro"}

	realmDatabases = map[string]domain.Database{
		"official": domain.DatabaseMain,
		"event":    domain.DatabaseMain,
		"pro":      domain.DatabasePro,
	}
)

// The pro ladder stops at Major General; only the main database awards the
// topmost rank.
var mainRanks = []domain.Rank{
	{ID: 1, Name: "Recruit", XPThreshold: 0},
	{ID: 2, Name: "Private", XPThreshold: 100},
	{ID: 3, Name: "Private First Class", XPThreshold: 300},
	{ID: 4, Name: "Corporal", XPThreshold: 600},
	{ID: 5, Name: "Sergeant", XPThreshold: 1000},
	{ID: 6, Name: "Staff Sergeant", XPThreshold: 2000},
	{ID: 7, Name: "Sergeant First Class", XPThreshold: 3500},
	{ID: 8, Name: "Master Sergeant", XPThreshold: 5500},
	{ID: 9, Name: "Second Lieutenant", XPThreshold: 8000},
	{ID: 10, Name: "First Lieutenant", XPThreshold: 12000},
	{ID: 11, Name: "Captain", XPThreshold: 18000},
	{ID: 12, Name: "Major", XPThreshold: 25000},
	{ID: 13, Name: "Lieutenant Colonel", XPThreshold: 35000},
	{ID: 14, Name: "Colonel", XPThreshold: 50000},
	{ID: 15, Name: "Brigadier General", XPThreshold: 70000},
	{ID: 16, Name: "Major General", XPThreshold: 100000},
	{ID: 17, Name: "General", XPThreshold: 150000},
}

var proRanks = mainRanks[:16]

var mapTables = map[string]map[string]domain.MapInfo{
	"vanilla": {
		"bridge":  {ID: "bridge", Name: "The Bridge", HasPreview: true, HasOverview: true},
		"depot":   {ID: "depot", Name: "Supply Depot", HasPreview: true, HasOverview: true},
		"outpost": {ID: "outpost", Name: "Northern Outpost", HasPreview: true, HasOverview: false},
		"canyon":  {ID: "canyon", Name: "Red Canyon", HasPreview: true, HasOverview: true},
		"harbor":  {ID: "harbor", Name: "Old Harbor", HasPreview: false, HasOverview: false},
	},
	"vanilla_pro": {
		"bridge": {ID: "bridge", Name: "The Bridge", HasPreview: true, HasOverview: true},
		"depot":  {ID: "depot", Name: "Supply Depot", HasPreview: true, HasOverview: true},
	},
	"arena": {
		"pit":       {ID: "pit", Name: "The Pit", HasPreview: true, HasOverview: false},
		"colosseum": {ID: "colosseum", Name: "Colosseum", HasPreview: true, HasOverview: true},
	},
	"ctf": {
		"crossfire": {ID: "crossfire", Name: "Crossfire", HasPreview: true, HasOverview: true},
		"twinforts": {ID: "twinforts", Name: "Twin Forts", HasPreview: false, HasOverview: false},
	},
}
