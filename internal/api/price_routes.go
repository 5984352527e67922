package api

import (
	"net/http"

	"go.uber.org/zap"
)

// DB-backed poll history. These routes only exist meaningfully when the
// server was started with a database; otherwise they 404.

func (s *Server) requireRepo(w http.ResponseWriter) bool {
	if s.priceRepo == nil {
		writeError(w, http.StatusNotFound, "price history persistence not configured")
		return false
	}
	return true
}

func (s *Server) handlePricesByDay(w http.ResponseWriter, r *http.Request) {
	if !s.requireRepo(w) {
		return
	}

	date := r.PathValue("date")
	if !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	prices, err := s.priceRepo.GetByDay(r.Context(), date)
	if err != nil {
		s.log.Error("fetch prices by day failed", zap.String("date", date), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch prices")
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

func (s *Server) handleAvailableDays(w http.ResponseWriter, r *http.Request) {
	if !s.requireRepo(w) {
		return
	}

	days, err := s.priceRepo.GetAvailableDays(r.Context())
	if err != nil {
		s.log.Error("fetch available days failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch available days")
		return
	}
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleLatestPrice(w http.ResponseWriter, r *http.Request) {
	if !s.requireRepo(w) {
		return
	}

	instrument := r.URL.Query().Get("instrument")
	if instrument == "" {
		writeError(w, http.StatusBadRequest, "instrument query parameter is required")
		return
	}

	price, err := s.priceRepo.GetLatest(r.Context(), instrument)
	if err != nil {
		s.log.Error("fetch latest price failed", zap.String("instrument", instrument), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch latest price")
		return
	}
	if price == nil {
		writeError(w, http.StatusNotFound, "no price data available")
		return
	}
	writeJSON(w, http.StatusOK, price)
}
