package handlers

import (
	"net/http"

	"github.com/carpenike/stacked/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.fail(w, r, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleSaveSettings replaces the settings. Changing the unit does not
// convert any stored weights.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.AppSettings
	if err := decodeJSON(r, &settings, false); err != nil {
		s.fail(w, r, "decode settings", err)
		return
	}
	if err := settings.Validate(); err != nil {
		s.fail(w, r, "validate settings", err)
		return
	}
	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		s.fail(w, r, "save settings", err)
		return
	}
	s.notice(r, "Settings saved")
	writeJSON(w, http.StatusOK, settings)
}
