package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// StatsHandler счётчики для шапки дашборда
func (h *Handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator.Stats(time.Now().UTC()))
}

// RecentHandler последние записи истории, свежие первыми
func (h *Handlers) RecentHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 10)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	writeJSON(w, http.StatusOK, h.aggregator.Recent(limit))
}

// ActivityHandler почасовая активность за последние hours часов.
// Часы без детекций в ответе опускаются
func (h *Handlers) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r, "hours", 24)
	if err != nil || hours < 1 {
		writeError(w, http.StatusBadRequest, "hours must be a positive integer")
		return
	}

	writeJSON(w, http.StatusOK, h.aggregator.Activity(time.Now().UTC(), hours))
}

// DetectionsHandler страница истории с общим количеством
func (h *Handlers) DetectionsHandler(w http.ResponseWriter, r *http.Request) {
	skip, err := intParam(r, "skip", 0)
	if err != nil || skip < 0 {
		writeError(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}

	limit, err := intParam(r, "limit", 50)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	total, items := h.aggregator.Page(skip, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"total": total,
		"items": items,
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
