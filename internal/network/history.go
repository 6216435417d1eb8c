// Package network - history.go
// Bakery history: the event log and the durable ledger as JSON.
package network

import (
	"net/http"
	"strconv"
	"time"

	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/infra/storage"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// DefaultHistoryLimit applies when the request names no limit.
const DefaultHistoryLimit = 100

// HistoryHandler serves the bakery's event history.
type HistoryHandler struct {
	eventLog *events.EventLog
	ledger   storage.EventRepository // nil serves the in-memory log only
	logger   *logger.Logger
}

// NewHistoryHandler creates a history handler. ledger may be nil.
func NewHistoryHandler(el *events.EventLog, ledger storage.EventRepository, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{eventLog: el, ledger: ledger, logger: log}
}

// HistoryEvent is one summarized line of history.
type HistoryEvent struct {
	ID       string         `json:"id"`
	Seq      uint64         `json:"seq"`
	TargetID string         `json:"target_id,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	storage.RecapEvent
}

// HistoryResponse is the API response for the history listing.
type HistoryResponse struct {
	Source      string         `json:"source"` // "memory" or "ledger"
	TotalEvents int            `json:"total_events"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEvent `json:"events"`
}

// HandleHistory returns recent events, oldest first.
// GET /api/history?type=BUILDING_PURCHASED&limit=50&source=ledger
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eventType := q.Get("type")
	limit := DefaultHistoryLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var stored []storage.StoredEvent
	source := "memory"
	if q.Get("source") == "ledger" {
		if h.ledger == nil {
			jsonError(w, "No ledger configured", http.StatusNotFound)
			return
		}
		var err error
		stored, err = h.ledger.Recent(r.Context(), eventType, limit)
		if err != nil {
			h.logger.Errorf("History query failed: %v", err)
			jsonError(w, "Ledger unavailable", http.StatusInternalServerError)
			return
		}
		source = "ledger"
	} else {
		for _, e := range h.eventLog.Recent(events.EventType(eventType), limit) {
			s, err := storage.ToStored(e)
			if err != nil {
				h.logger.Warnf("Skipping event %s: %v", e.ID, err)
				continue
			}
			stored = append(stored, s)
		}
	}

	out := make([]HistoryEvent, 0, len(stored))
	for _, e := range stored {
		out = append(out, HistoryEvent{
			ID:         e.ID,
			Seq:        e.Seq,
			TargetID:   e.TargetID,
			Details:    e.Payload,
			RecapEvent: storage.Summarize(e),
		})
	}
	jsonSuccess(w, HistoryResponse{
		Source:      source,
		TotalEvents: len(out),
		FilteredBy:  eventType,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	})
}

// HandleRecap summarizes the ledger since a point in time.
// GET /api/history/recap?since=2026-01-02T15:04:05Z (default: last 24h)
func (h *HistoryHandler) HandleRecap(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		jsonError(w, "No ledger configured", http.StatusNotFound)
		return
	}
	since := time.Now().Add(-24 * time.Hour)
	if s := r.URL.Query().Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			jsonError(w, "Invalid since, want RFC3339", http.StatusBadRequest)
			return
		}
		since = t
	}

	recap, totals, err := storage.NewReconstructor(h.ledger).GenerateRecap(r.Context(), since)
	if err != nil {
		h.logger.Errorf("Recap failed: %v", err)
		jsonError(w, "Ledger unavailable", http.StatusInternalServerError)
		return
	}
	h.logger.Event("HISTORY_RECAP", "PLAYER", "Events:"+strconv.Itoa(len(recap)))
	jsonSuccess(w, map[string]any{
		"since":  since.Format(time.RFC3339),
		"totals": totals,
		"events": recap,
	})
}

// HandleStats returns event counts per type from the in-memory log.
// GET /api/history/stats
func (h *HistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	all := h.eventLog.Replay()
	counts := make(map[string]int)
	for _, e := range all {
		counts[string(e.Type)]++
	}
	jsonSuccess(w, map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      counts,
	})
}

// RegisterRoutes sets up the history routes.
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("GET /api/history/recap", h.HandleRecap)
	mux.HandleFunc("GET /api/history/stats", h.HandleStats)
}
