package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/carpenike/stacked/internal/importers"
	"github.com/carpenike/stacked/internal/models"
	"github.com/carpenike/stacked/internal/storage"
)

// importResult reports what an import did.
type importResult struct {
	Format   importers.Format `json:"format"`
	Mode     string           `json:"mode"`
	Workouts int              `json:"workouts"`
	Upcast   int              `json:"upcast,omitempty"`
	Skipped  int              `json:"skipped,omitempty"`
}

// handleExport downloads every workout and the settings as one document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListWorkouts(r.Context())
	if err != nil {
		s.fail(w, r, "list workouts for export", err)
		return
	}
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.fail(w, r, "get settings for export", err)
		return
	}

	now := s.now()
	data, err := json.MarshalIndent(models.NewExport(workouts, settings, now), "", "  ")
	if err != nil {
		s.fail(w, r, "encode export", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, models.ExportFilename(now)))
	w.Write(data)
}

// readUpload returns the uploaded file from a multipart form field named
// "file", or the raw request body.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("handlers: %w: missing file upload", models.ErrInvalidInput)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// handleImport loads a file. A Stacked export overwrites every workout and
// the settings; a Strong or Hevy CSV is appended to the existing workouts.
// Nothing is written when the file does not parse.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		s.fail(w, r, "read upload", err)
		return
	}

	if importers.DetectFormat(data) == importers.FormatStackedJSON {
		s.importExport(w, r, data)
		return
	}

	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.fail(w, r, "get settings", err)
		return
	}
	parsed, err := importers.ParseCSV(data, settings.WeightUnit)
	if err != nil {
		s.fail(w, r, "parse csv", err)
		return
	}
	for i := range parsed.Workouts {
		if err := models.ValidateWorkout(&parsed.Workouts[i]); err != nil {
			s.fail(w, r, "validate imported workout", err)
			return
		}
	}

	if err := storage.Append(r.Context(), s.store, parsed.Workouts); err != nil {
		s.fail(w, r, "append imported workouts", err)
		return
	}

	n := len(parsed.Workouts)
	s.notifier.DataImported(n, string(parsed.Format))
	s.notice(r, fmt.Sprintf("Imported %d workouts", n))
	writeJSON(w, http.StatusOK, importResult{Format: parsed.Format, Mode: "append", Workouts: n, Skipped: parsed.Skipped})
}

func (s *Server) importExport(w http.ResponseWriter, r *http.Request, data []byte) {
	doc, err := models.ParseImport(data)
	if err != nil {
		s.fail(w, r, "parse import", err)
		return
	}
	if err := storage.Restore(r.Context(), s.store, doc.Workouts, doc.Settings); err != nil {
		s.fail(w, r, "restore backup", err)
		return
	}

	n := len(doc.Workouts)
	s.notifier.DataImported(n, "backup")
	s.notice(r, fmt.Sprintf("Imported %d workouts", n))
	writeJSON(w, http.StatusOK, importResult{Format: importers.FormatStackedJSON, Mode: "replace", Workouts: n, Upcast: doc.Legacy})
}

// handleClearData deletes every workout and resets the settings.
func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.fail(w, r, "clear data", err)
		return
	}
	s.notifier.DataCleared()
	s.notice(r, "All data cleared")
	w.WriteHeader(http.StatusNoContent)
}
