// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	service "github.com/goldengoal/sponsormatch/internal/app"
	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend runs the matching pipeline for one club.
	Recommend(ctx context.Context, req service.Request) (service.Result, error)

	// Read operations expose the club registry.
	GetClub(ctx context.Context, id int64) (model.Club, error)
	SearchClubs(ctx context.Context, query string, limit int) ([]model.Club, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	clubsHandler           *ClubsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		recommendationsHandler: NewRecommendationsHandler(deps),
		clubsHandler:           NewClubsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/clubs", MetricsMiddleware(s.clubsHandler.HandleSearchClubs, "clubs"))
	mux.HandleFunc("/clubs/", MetricsMiddleware(s.clubsHandler.HandleGetClub, "club"))
}

// clubResponse mirrors the wire shape of a club.
type clubResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	SizeBucket  string  `json:"size_bucket"`
	MemberCount int     `json:"member_count"`
	Address     string  `json:"address,omitempty"`
}

func toClubResponse(c model.Club) clubResponse {
	return clubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Lat:         c.Lat,
		Lon:         c.Lon,
		SizeBucket:  string(c.SizeBucket),
		MemberCount: c.MemberCount,
		Address:     c.Address,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates pipeline errors to HTTP status codes:
// validation problems are the client's fault, a missing club is 404,
// everything else is a store or pipeline failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, geo.ErrInvalidCoordinate):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
