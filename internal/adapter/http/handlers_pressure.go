package adapthttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleReadingsList(w http.ResponseWriter, r *http.Request) {
	readings, err := s.pressure.Readings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(readings),
		"items": readings,
	})
}

func (s *Server) handleReadingSave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Day       string `json:"day"`
		Systolic  int    `json:"systolic"`
		Diastolic int    `json:"diastolic"`
		Notes     string `json:"notes"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Day == "" {
		body.Day = localDayString(time.Now())
	}

	reading, err := s.pressure.AddReading(r.Context(), body.Day, body.Systolic, body.Diastolic, body.Notes)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	s.metrics.CounterReadingsSaved.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"reading": reading})
}

func (s *Server) handleReadingDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	deleted, err := s.pressure.RemoveReading(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "id": id})
}

func (s *Server) handleReadingsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.pressure.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleReadingsExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="blood_pressure_log.csv"`)
	if err := s.pressure.WriteCSV(r.Context(), w); err != nil {
		return
	}
	s.metrics.CounterExports.Inc()
}
