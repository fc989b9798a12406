// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// sessionStats adds the live session count to another provider's stats.
type sessionStats struct {
	inner    StatsProvider
	sessions Sessions
}

func withSessionCount(inner StatsProvider, sessions Sessions) StatsProvider {
	return sessionStats{inner: inner, sessions: sessions}
}

func (s sessionStats) GetStats() map[string]interface{} {
	stats := map[string]interface{}{}
	if s.inner != nil {
		for k, v := range s.inner.GetStats() {
			stats[k] = v
		}
	}
	if s.sessions != nil {
		stats["activeSessions"] = s.sessions.Count()
	}
	return stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	stats := h.statsProvider.GetStats()
	_ = json.NewEncoder(w).Encode(stats)
}
