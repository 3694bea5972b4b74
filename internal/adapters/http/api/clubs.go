// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
)

const defaultSearchLimit = 20

// ClubsDependencies defines the interface for club registry reads.
type ClubsDependencies interface {
	GetClub(ctx context.Context, id int64) (model.Club, error)
	SearchClubs(ctx context.Context, query string, limit int) ([]model.Club, error)
}

// ClubsHandler handles club lookup and search requests.
type ClubsHandler struct {
	deps ClubsDependencies
}

// NewClubsHandler creates a new clubs handler.
func NewClubsHandler(deps ClubsDependencies) *ClubsHandler {
	return &ClubsHandler{deps: deps}
}

// HandleSearchClubs handles GET /clubs?query=name&limit=N requests.
func (h *ClubsHandler) HandleSearchClubs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("query must not be empty: %w", ErrBadRequest))
		return
	}

	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("limit must be a positive integer: %w", ErrBadRequest))
			return
		}
		limit = n
	}

	clubs, err := h.deps.SearchClubs(r.Context(), query, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]clubResponse, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, toClubResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetClub handles GET /clubs/{id} requests.
func (h *ClubsHandler) HandleGetClub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/clubs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("club id must be a positive integer: %w", ErrBadRequest))
		return
	}

	club, err := h.deps.GetClub(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubResponse(club))
}
