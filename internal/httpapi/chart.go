package httpapi

import "net/http"

// getChart handles GET /v1/chart: the static category tree.
func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	roots := s.chart.Roots()
	out := make([]categoryResponse, 0, len(roots))
	for _, root := range roots {
		out = append(out, toCategoryResponse(root))
	}
	toJSON(w, http.StatusOK, struct {
		Categories []categoryResponse `json:"categories"`
	}{Categories: out})
}
