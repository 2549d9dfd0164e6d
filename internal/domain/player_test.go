package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayerDerivedFields(t *testing.T) {
	tests := []struct {
		name      string
		kills     int
		deaths    int
		wantScore int
		wantKD    float64
	}{
		{name: "no deaths avoids division", kills: 10, deaths: 0, wantScore: 10, wantKD: 0.00},
		{name: "kd rounded to two decimals", kills: 10, deaths: 4, wantScore: 6, wantKD: 2.50},
		{name: "kd rounds up", kills: 10, deaths: 3, wantScore: 7, wantKD: 3.33},
		{name: "negative score", kills: 2, deaths: 9, wantScore: -7, wantKD: 0.22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(DatabaseMain, "Viper", Stats{Kills: tt.kills, Deaths: tt.deaths})
			assert.Equal(t, tt.wantScore, p.Score)
			assert.Equal(t, tt.wantKD, p.KDRatio)
		})
	}
}

func TestNewPlayerCountsClamping(t *testing.T) {
	c := NewPlayerCounts(-3, 16)
	assert.Equal(t, 0, c.Current)
	assert.Equal(t, 16, c.Free)

	c = NewPlayerCounts(5, 16)
	assert.Equal(t, 11, c.Free)
	assert.Equal(t, c.Max-c.Current, c.Free)
}

func TestStatsField(t *testing.T) {
	s := Stats{Kills: 12, DistanceKm: 3.5, TimePlayed: 60}

	v, ok := s.Field("kills")
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	v, ok = s.Field("distance_km")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = s.Field("nonsense")
	assert.False(t, ok)
}
