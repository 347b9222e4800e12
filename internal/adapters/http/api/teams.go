package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/types"
)

// TeamsDependencies defines the interface for team queries.
type TeamsDependencies interface {
	TopTeams(ctx context.Context, basis model.Basis, k int) ([]types.TeamEntry, []string, error)
	Team(ctx context.Context, basis model.Basis, id int) (types.TeamDetail, error)
}

// TeamsHandler handles team requests.
type TeamsHandler struct {
	deps         TeamsDependencies
	defaultLimit int
	maxLimit     int
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies, defaultLimit, maxLimit int) *TeamsHandler {
	return &TeamsHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// HandleGetTeams handles GET /teams?basis=avg&limit=K requests.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	basis, err := parseBasis(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	k, err := parseLimit(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		writeLimitError(w, op, err)
		return
	}
	teams, notes, err := h.deps.TopTeams(r.Context(), basis, k)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, teamsResponse{Basis: basis.String(), Teams: teams, Annotations: notes})
}

// HandleGetTeam handles GET /teams/{id}?basis=avg requests.
func (h *TeamsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/teams/")
	id, err := strconv.Atoi(path)
	if path == "" || err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest))
		return
	}
	basis, err := parseBasis(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	detail, err := h.deps.Team(r.Context(), basis, id)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
