package api

import (
	"fmt"
	"net/http"

	"github.com/okian/gymteams/internal/adapters/repository"
	"github.com/okian/gymteams/internal/domain/types"
)

// StatsProvider reports run statistics. The "bases" entry, when present,
// holds one types.BasisStats per published basis.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves run statistics.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats and GET /stats?basis=day1 requests. With
// a basis only that basis's counts are returned.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.provider.GetStats()
	if r.URL.Query().Get("basis") == "" {
		writeJSON(w, http.StatusOK, stats)
		return
	}
	basis, err := parseBasis(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	bases, _ := stats["bases"].([]types.BasisStats)
	for _, b := range bases {
		if b.Basis == basis.String() {
			writeJSON(w, http.StatusOK, b)
			return
		}
	}
	writeUpstreamError(w, op, fmt.Errorf("%s: %w", basis, repository.ErrNoSnapshot))
}
