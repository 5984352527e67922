package api

import (
	"net/http"
	"os"

	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
)

type pieResponse struct {
	Source string               `json:"source"`
	Slices []dashboard.PieSlice `json:"slices"`
}

func (s *Server) handlePieSample(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.pieFile)
	if err != nil {
		writeError(w, http.StatusNotFound, "sample dataset not available")
		return
	}
	defer f.Close()

	slices, err := dashboard.LoadPie(f)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pieResponse{Source: "sample", Slices: slices})
}

func (s *Server) handlePieUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with a 'file' field")
		return
	}
	defer file.Close()

	slices, err := dashboard.LoadPie(file)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pieResponse{Source: "upload", Slices: slices})
}
