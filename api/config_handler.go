package api

import (
	"net/http"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/config"
)

// handleGetConfig returns the running configuration.
// GET /api/v1/config
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.cfg})
}

// handleGetConfigSources reports where each setting came from.
// GET /api/v1/config/sources
func (s *Server) handleGetConfigSources(w http.ResponseWriter, r *http.Request) {
	statuses, err := config.Sources(s.cfgFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve config sources: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: statuses})
}
