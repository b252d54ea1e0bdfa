package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"weightlog/internal/stats"
)

func (s *Server) handleEntriesList(w http.ResponseWriter, r *http.Request) {
	entries := s.tracker.OrderedEntries()
	writeJSON(w, http.StatusOK, map[string]any{
		"today": localDayString(time.Now()),
		"count": len(entries),
		"items": entries,
	})
}

func (s *Server) handleEntrySave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Day     string  `json:"day"`
		Weight  float64 `json:"weight"`
		BodyFat float64 `json:"bodyFat"`
		Notes   string  `json:"notes"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Day == "" {
		body.Day = localDayString(time.Now())
	}

	entry, err := s.tracker.AddOrUpdateEntry(r.Context(), body.Day, body.Weight, body.BodyFat, body.Notes)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	s.metrics.CounterEntriesSaved.Inc()
	s.metrics.GaugeLogDays.Set(float64(s.tracker.Len()))
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry, "dirty": s.tracker.Dirty()})
}

func (s *Server) handleEntryDelete(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")

	deleted, err := s.tracker.RemoveEntry(r.Context(), day)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	if deleted {
		s.metrics.CounterEntriesDeleted.Inc()
		s.metrics.GaugeLogDays.Set(float64(s.tracker.Len()))
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "day": day})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": s.tracker.Summary(),
		"unit":    s.display.Unit,
		"dirty":   s.tracker.Dirty(),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	method := stats.Method(r.URL.Query().Get("method"))
	if method == "" {
		method = s.display.Method()
	}
	window := intQuery(r, "window", s.display.TrendWindow)

	points, err := s.tracker.TrendLine(method, window)
	if err != nil {
		// An empty or single-entry log has no trend yet. That is a state,
		// not a client mistake, so report it as such.
		if errors.Is(err, stats.ErrInsufficientData) {
			writeJSON(w, http.StatusOK, map[string]any{
				"method": method,
				"window": window,
				"points": []stats.Point{},
			})
			return
		}
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"method": method,
		"window": window,
		"points": points,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="weight_log.csv"`)
	if err := s.tracker.WriteCSV(w); err != nil {
		// Headers are already out, nothing sane left to send.
		return
	}
	s.metrics.CounterExports.Inc()
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	count, err := s.tracker.ReadCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	s.metrics.CounterImports.Inc()
	s.metrics.GaugeLogDays.Set(float64(count))
	writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.csvPath == "" {
		writeError(w, http.StatusBadRequest, errors.New("no csv_path configured"))
		return
	}
	if err := s.tracker.ExportCSV(s.csvPath); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.CounterExports.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "path": s.csvPath})
}
