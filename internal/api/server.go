package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/config"
	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
	"github.com/OER-Club/CS39AE-Fall25/internal/market"
	"github.com/OER-Club/CS39AE-Fall25/internal/repository"
	"github.com/OER-Club/CS39AE-Fall25/internal/session"
)

const sessionCookie = "session_id"

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Server struct {
	sessions     *session.Manager
	pool         *pgxpool.Pool
	priceRepo    *repository.PriceRepo
	profile      dashboard.Profile
	pieFile      string
	maxEdgeLimit int
	httpServer   *http.Server
	apiKey       string
	log          *zap.Logger
}

func NewServer(cfg *config.Config, sessions *session.Manager, pool *pgxpool.Pool, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		sessions:     sessions,
		pool:         pool,
		profile:      dashboard.NewProfile(cfg.BioName, cfg.BioProgram, cfg.BioIntro, cfg.BioPhoto),
		pieFile:      cfg.PieFile,
		maxEdgeLimit: cfg.MaxEdgeLimit,
		apiKey:       cfg.APIKey,
		log:          log,
	}
	if pool != nil {
		s.priceRepo = repository.NewPriceRepo(pool)
	}

	mux := http.NewServeMux()

	// Bio page
	mux.HandleFunc("GET /v1/bio", s.handleBio)

	// Pie page
	mux.HandleFunc("GET /v1/pie/sample", s.handlePieSample)
	mux.HandleFunc("POST /v1/pie", s.handlePieUpload)

	// Live crypto page
	mux.HandleFunc("GET /v1/crypto/view", s.handleCryptoView)
	mux.HandleFunc("POST /v1/crypto/settings", s.handleCryptoSettings)
	mux.HandleFunc("GET /v1/crypto/history", s.handleCryptoHistory)
	mux.HandleFunc("GET /v1/crypto/stream", s.handleCryptoStream)

	// Persisted poll history (requires a database)
	mux.HandleFunc("GET /v1/prices/day/{date}", s.handlePricesByDay)
	mux.HandleFunc("GET /v1/prices/days", s.handleAvailableDays)
	mux.HandleFunc("GET /v1/prices/latest", s.handleLatestPrice)

	// Network page
	mux.HandleFunc("POST /v1/network/edges", s.handleEdgeUpload)
	mux.HandleFunc("GET /v1/network/view", s.handleNetworkView)
	mux.HandleFunc("GET /v1/network/export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /v1/network/export/graphml", s.handleExportGraphML)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(s.sessionMiddleware(mux), cfg.CORSAllowOrigin))

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the crypto stream holds its connection open.
	}

	return s
}

func (s *Server) Start() error {
	s.log.Info("REST API server started",
		zap.String("addr", s.httpServer.Addr),
		zap.Bool("auth", s.apiKey != ""))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionKey struct{}

// sessionMiddleware resolves the caller's session id from the cookie or
// the X-Session-ID header, issuing a fresh one when absent.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			id = c.Value
		}
		if h := r.Header.Get("X-Session-ID"); h != "" {
			id = h
		}
		if id == "" {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) session(r *http.Request) *session.Session {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return s.sessions.Get(id)
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFetchError maps a price-fetch failure onto an inline error
// response: upstream rejections and connectivity failures are gateway
// errors, anything else is ours.
func writeFetchError(w http.ResponseWriter, err error) {
	var re *market.RemoteError
	var ne *market.NetworkError
	switch {
	case errors.As(err, &re), errors.As(err, &ne):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeValidationError reports malformed uploads as 400s.
func writeValidationError(w http.ResponseWriter, err error) {
	var ve *edges.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
