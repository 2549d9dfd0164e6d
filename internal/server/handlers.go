// Package server is the thin JSON surface collaborators consume. Handlers
// only parse parameters, delegate to the facade and shape the response; no
// domain logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/fetch"
	"frontline-tracker/internal/filter"
	"frontline-tracker/internal/service"
	"frontline-tracker/internal/snapshot"
	"frontline-tracker/internal/upstream"
)

const dateFormat = "2006-01-02"

type Server struct {
	tracker *service.Tracker
	store   *snapshot.Store
	logger  zerolog.Logger
}

func New(tracker *service.Tracker, store *snapshot.Store, logger zerolog.Logger) *Server {
	return &Server{tracker: tracker, store: store, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/servers", s.handleServers)
	mux.HandleFunc("POST /api/servers/invalidate", s.handleInvalidate)
	mux.HandleFunc("GET /api/players", s.handlePlayers)
	mux.HandleFunc("GET /api/players/search", s.handleSearch)
	mux.HandleFunc("GET /api/players/asof", s.handleAsOf)
	mux.HandleFunc("GET /api/players/history", s.handleHistory)
	return mux
}

func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.ParseCriteria(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	servers, err := s.tracker.FilterServers(r.Context(), criteria)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"servers": servers, "count": len(servers)})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.tracker.InvalidateServers()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := intParam(q.Get("start"), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit, err := intParam(q.Get("limit"), 50)
	if err != nil {
		s.writeError(w, err)
		return
	}

	players, err := s.tracker.Players(r.Context(), domain.Database(q.Get("db")), q.Get("sort"), q.Get("target"), start, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"players": players, "count": len(players)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	db := domain.Database(q.Get("db"))
	name := q.Get("name")

	if q.Get("exists") == "1" {
		exists, err := s.tracker.PlayerExists(r.Context(), db, name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"exists": exists})
		return
	}

	player, err := s.tracker.SearchPlayer(r.Context(), db, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if player == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "player not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleAsOf(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	db := domain.Database(q.Get("db"))
	if !db.Valid() {
		s.writeError(w, &filter.ValidationError{Field: "db", Value: q.Get("db")})
		return
	}
	date, err := time.Parse(dateFormat, q.Get("date"))
	if err != nil {
		s.writeError(w, &filter.ValidationError{Field: "date", Value: q.Get("date")})
		return
	}

	snap, err := s.store.MostRecentAsOf(r.Context(), db, q.Get("name"), date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if snap == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "no snapshot on or before date"})
		return
	}

	acc, err := s.store.Account(r.Context(), db, q.Get("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"player":   s.store.PlayerAt(acc, snap),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	db := domain.Database(q.Get("db"))
	if !db.Valid() {
		s.writeError(w, &filter.ValidationError{Field: "db", Value: q.Get("db")})
		return
	}
	since, err := time.Parse(dateFormat, q.Get("since"))
	if err != nil {
		s.writeError(w, &filter.ValidationError{Field: "since", Value: q.Get("since")})
		return
	}
	column := q.Get("column")
	if column != "" {
		if _, ok := (domain.Stats{}).Field(column); !ok {
			s.writeError(w, &filter.ValidationError{Field: "column", Value: column})
			return
		}
	}

	points, err := s.store.Series(r.Context(), db, q.Get("name"), since)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if column == "" {
		s.writeJSON(w, http.StatusOK, map[string]any{"points": points, "count": len(points)})
		return
	}

	type columnPoint struct {
		Day    string  `json:"day"`
		Value  float64 `json:"value"`
		RankUp bool    `json:"rank_up"`
	}
	out := make([]columnPoint, len(points))
	for i, p := range points {
		v, _ := p.Stats.Field(column)
		out[i] = columnPoint{Day: p.CapturedDay, Value: v, RankUp: p.RankUp}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"points": out, "count": len(out)})
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &filter.ValidationError{Field: "pagination", Value: raw}
	}
	return v, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *filter.ValidationError
		fetchErr      *fetch.Error
		parseErr      *upstream.ParseError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
		if fetchErr.Timeout() {
			status = http.StatusGatewayTimeout
		}
	case errors.As(err, &parseErr):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error().Err(err).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Msg("request rejected")
	}
	s.writeJSON(w, status, map[string]any{"error": err.Error()})
}
