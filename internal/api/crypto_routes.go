package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
)

// handleCryptoView performs one poll cycle for the caller's session and
// renders the result. A fetch failure halts the cycle: the history is
// unchanged and the failure is reported inline.
func (s *Server) handleCryptoView(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Lock()
	view, err := sess.Page.Step(r.Context(), sess.Crypto, dashboard.TickEvent{})
	sess.Unlock()

	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type cryptoSettingsRequest struct {
	Instruments         []string `json:"instruments"`
	VsCurrency          string   `json:"vsCurrency"`
	WindowMinutes       int      `json:"windowMinutes"`
	PollIntervalSeconds int      `json:"pollIntervalSeconds"`
	Live                bool     `json:"live"`
}

func (s *Server) handleCryptoSettings(w http.ResponseWriter, r *http.Request) {
	var req cryptoSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := s.session(r)
	sess.Lock()
	defer sess.Unlock()

	// Omitted fields keep their current values.
	current := sess.Crypto.Settings
	next := dashboard.CryptoSettings{
		Instruments:  req.Instruments,
		VsCurrency:   req.VsCurrency,
		Window:       time.Duration(req.WindowMinutes) * time.Minute,
		PollInterval: time.Duration(req.PollIntervalSeconds) * time.Second,
		Live:         req.Live,
	}
	if len(next.Instruments) == 0 {
		next.Instruments = current.Instruments
	}
	if next.VsCurrency == "" {
		next.VsCurrency = current.VsCurrency
	}
	if req.WindowMinutes == 0 {
		next.Window = current.Window
	}
	if req.PollIntervalSeconds == 0 {
		next.PollInterval = current.PollInterval
	}

	view, err := sess.Page.Step(r.Context(), sess.Crypto, dashboard.SettingsEvent{Settings: next})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCryptoHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Lock()
	points := sess.Crypto.History.Points()
	sess.Unlock()

	writeJSON(w, http.StatusOK, points)
}
