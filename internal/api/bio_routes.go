package api

import "net/http"

func (s *Server) handleBio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile)
}
