package api

import (
	"context"
	"net/http"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/types"
)

// Default number of athletes per leaderboard.
const defaultAthleteLimit = 10

// AthletesDependencies defines the interface for athlete queries.
type AthletesDependencies interface {
	Athletes(ctx context.Context, basis model.Basis, event model.Event, n int) ([]types.AthleteEntry, error)
	Movements(ctx context.Context, n int) ([]types.Movement, error)
}

// AthletesHandler handles athlete leaderboard requests.
type AthletesHandler struct {
	deps     AthletesDependencies
	maxLimit int
}

// NewAthletesHandler creates a new athletes handler.
func NewAthletesHandler(deps AthletesDependencies, maxLimit int) *AthletesHandler {
	return &AthletesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetAthletes handles GET /athletes?basis=avg&event=AA&limit=N requests.
func (h *AthletesHandler) HandleGetAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athletes"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	basis, err := parseBasis(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	event := model.AllAround
	if s := r.URL.Query().Get("event"); s != "" {
		if event, err = model.ParseEvent(s); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
	}
	n, err := parseLimit(r, defaultAthleteLimit, h.maxLimit)
	if err != nil {
		writeLimitError(w, op, err)
		return
	}
	rows, err := h.deps.Athletes(r.Context(), basis, event, n)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, athletesResponse{Basis: basis.String(), Event: event.String(), Athletes: rows})
}

// HandleGetMovement handles GET /athletes/movement?limit=N requests.
func (h *AthletesHandler) HandleGetMovement(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movement"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(r, defaultAthleteLimit, h.maxLimit)
	if err != nil {
		writeLimitError(w, op, err)
		return
	}
	moves, err := h.deps.Movements(r.Context(), n)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, moves)
}
