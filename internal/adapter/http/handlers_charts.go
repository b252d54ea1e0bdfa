package adapthttp

import (
	"net/http"
	"time"

	"weightlog/internal/stats"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 90)
	method := stats.Method(r.URL.Query().Get("method"))
	if method == "" {
		method = s.display.Method()
	}
	window := intQuery(r, "window", s.display.TrendWindow)

	points, err := s.charts.GetDaily(r.Context(), days, method, window)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"unit":  s.display.Unit,
		"today": localDayString(time.Now()),
		"items": points,
	})
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"goals": s.goals,
		"unit":  s.display.Unit,
	})
}
