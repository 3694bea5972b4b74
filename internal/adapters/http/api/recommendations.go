// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/goldengoal/sponsormatch/internal/app"
)

// RecommendationsDependencies defines the interface for recommendation operations.
type RecommendationsDependencies interface {
	Recommend(ctx context.Context, req service.Request) (service.Result, error)
}

// RecommendationsHandler handles sponsor recommendation requests.
type RecommendationsHandler struct {
	deps RecommendationsDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationsDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleGetRecommendations handles
// GET /recommendations?club_id=N&max_distance_km=F&top_n=N&size_bucket=S.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	req, err := parseRecommendRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.Recommend(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseRecommendRequest(r *http.Request) (service.Request, error) {
	q := r.URL.Query()

	clubID, err := strconv.ParseInt(q.Get("club_id"), 10, 64)
	if err != nil || clubID < 1 {
		return service.Request{}, fmt.Errorf("club_id must be a positive integer: %w", ErrBadRequest)
	}
	req := service.Request{
		ClubID:     clubID,
		SizeBucket: q.Get("size_bucket"),
	}

	if v := q.Get("max_distance_km"); v != "" {
		req.MaxDistanceKM, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return service.Request{}, fmt.Errorf("max_distance_km must be a number: %w", ErrBadRequest)
		}
	}
	if v := q.Get("top_n"); v != "" {
		req.TopN, err = strconv.Atoi(v)
		if err != nil {
			return service.Request{}, fmt.Errorf("top_n must be an integer: %w", ErrBadRequest)
		}
	}
	return req, nil
}
