package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS is enforced by the HTTP middleware; the browser dashboard may
	// live on another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type streamFrame struct {
	View  *dashboard.CryptoView `json:"view,omitempty"`
	Error string                `json:"error,omitempty"`
}

// handleCryptoStream is the live-mode push loop: one poll cycle per
// interval, each result written as a JSON frame. A failed cycle emits an
// error frame and the loop carries on with the next tick.
func (s *Server) handleCryptoStream(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reader goroutine: detects client close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Info("crypto stream opened", zap.String("session", sess.ID))

	for {
		// Keep the session marked as in use so the idle pruner does not
		// drop it out from under a long-lived stream.
		s.sessions.Get(sess.ID)

		sess.Lock()
		interval := sess.Crypto.Settings.PollInterval
		view, err := sess.Page.Step(r.Context(), sess.Crypto, dashboard.TickEvent{})
		sess.Unlock()

		frame := streamFrame{View: view}
		if err != nil {
			frame = streamFrame{Error: err.Error()}
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(frame); err != nil {
			s.log.Info("crypto stream closed", zap.String("session", sess.ID), zap.Error(err))
			return
		}

		select {
		case <-done:
			s.log.Info("crypto stream closed by client", zap.String("session", sess.ID))
			return
		case <-r.Context().Done():
			return
		case <-time.After(interval):
		}
	}
}
