// Package geo annotates servers with their location from a local MaxMind
// database. Lookups are best-effort: a miss leaves the server untouched.
package geo

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/domain"
)

type Locator struct {
	reader *geoip2.Reader
	logger zerolog.Logger
}

func NewLocator(cfg *config.Config, logger zerolog.Logger) (*Locator, error) {
	if cfg.GeoDBPath == "" {
		logger.Warn().Msg("GEODB_PATH not set, geo annotation disabled")
		return &Locator{logger: logger}, nil
	}

	reader, err := geoip2.Open(cfg.GeoDBPath)
	if err != nil {
		return nil, fmt.Errorf("open geo database: %w", err)
	}
	logger.Info().Str("path", cfg.GeoDBPath).Msg("geo database opened")
	return &Locator{reader: reader, logger: logger}, nil
}

func (l *Locator) Close() error {
	if l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

// Annotate fills in location fields for every server whose IP resolves.
// Malformed IPs and lookup misses are not errors.
func (l *Locator) Annotate(servers []domain.Server) {
	if l.reader == nil {
		return
	}

	annotated := 0
	for i := range servers {
		ip := net.ParseIP(servers[i].IP)
		if ip == nil {
			continue
		}
		record, err := l.reader.City(ip)
		if err != nil {
			l.logger.Debug().Err(err).Str("ip", servers[i].IP).Msg("geo lookup failed")
			continue
		}
		loc := locationFromRecord(record)
		if loc == nil {
			continue
		}
		servers[i].Location = loc
		annotated++
	}

	l.logger.Debug().Int("annotated", annotated).Int("servers", len(servers)).Msg("geo annotation done")
}

func locationFromRecord(record *geoip2.City) *domain.Location {
	loc := &domain.Location{
		CountryCode:   record.Country.IsoCode,
		CountryName:   record.Country.Names["en"],
		ContinentCode: record.Continent.Code,
		City:          record.City.Names["en"],
	}
	if loc.CountryCode == "" && loc.ContinentCode == "" {
		return nil
	}

	parts := make([]string, 0, 2)
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	if loc.CountryName != "" {
		parts = append(parts, loc.CountryName)
	}
	loc.Label = strings.Join(parts, ", ")
	return loc
}

var Module = fx.Provide(NewLocator)
