package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bistboard/bistboard/internal/database"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": time.Since(s.startedAt).Seconds(),
	})
}

// handleData returns the full dashboard aggregate, building it on first
// request.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	dash, err := s.cache.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build dashboard")
		http.Error(w, "failed to load portfolio data", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, dash)
}

// handleRefresh forces a rebuild from the workbook source and returns the
// fresh aggregate.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	dash, err := s.cache.Refresh(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Manual refresh failed")
		http.Error(w, "refresh failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, dash)
}

// handlePortfolio returns the holdings table and totals without the chart
// series, for lightweight clients.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	dash, err := s.cache.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build dashboard")
		http.Error(w, "failed to load portfolio data", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"holdings": dash.Holdings,
		"totals":   dash.Totals,
	})
}

// handleQuotes returns quotes for the requested symbols, fetched live, or
// the most recently polled set when no symbols are given.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("symbols"); raw != "" && s.yahoo != nil {
		var symbols []string
		for _, sym := range strings.Split(raw, ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		if len(symbols) == 0 {
			http.Error(w, "symbols parameter is empty", http.StatusBadRequest)
			return
		}
		s.writeJSON(w, map[string]interface{}{"quotes": s.yahoo.GetMultipleQuotes(r.Context(), symbols)})
		return
	}

	quotes, err := s.quotes.All(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read quotes")
		http.Error(w, "failed to read quotes", http.StatusInternalServerError)
		return
	}
	if quotes == nil {
		quotes = []database.StoredQuote{}
	}
	s.writeJSON(w, map[string]interface{}{"quotes": quotes})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		http.Error(w, "chat is not configured", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := s.assistant.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.log.Error().Err(err).Str("session", req.SessionID).Msg("Chat failed")
		http.Error(w, "chat failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, chatResponse{SessionID: req.SessionID, Reply: reply})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		http.Error(w, "chat is not configured", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	if err := s.assistant.ClearHistory(r.Context(), req.SessionID); err != nil {
		s.log.Error().Err(err).Str("session", req.SessionID).Msg("Clear history failed")
		http.Error(w, "failed to clear history", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]string{"status": "cleared", "session_id": req.SessionID})
}

// SystemStatusResponse reports process and host health.
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := s.getSystemStats()

	s.writeJSON(w, SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		CPUPercent:    cpuPct,
		RAMPercent:    ramPct,
		Goroutines:    runtime.NumGoroutine(),
	})
}

// getSystemStats calculates CPU and RAM usage percentages. The 100ms CPU
// sampling interval keeps the endpoint responsive.
func (s *Server) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
