package api

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
	"github.com/OER-Club/CS39AE-Fall25/internal/graph"
)

type networkQuery struct {
	filter    edges.Filter
	directed  bool
	focus     string
	ego       bool
	hops      int
	influence string
}

func (s *Server) parseNetworkQuery(r *http.Request) networkQuery {
	q := r.URL.Query()

	nq := networkQuery{
		directed:  true,
		hops:      2,
		influence: "degree",
	}

	if v := q.Get("types"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				nq.filter.Types = append(nq.filter.Types, t)
			}
		}
	}
	nq.filter.TagSubstring = q.Get("tags")

	nq.filter.MaxEdges = 5000
	if v := q.Get("maxEdges"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			nq.filter.MaxEdges = n
		}
	}
	if nq.filter.MaxEdges > s.maxEdgeLimit {
		nq.filter.MaxEdges = s.maxEdgeLimit
	}

	if v := q.Get("directed"); v != "" {
		nq.directed = v == "true" || v == "1"
	}

	nq.focus = q.Get("focus")
	nq.ego = q.Get("ego") == "true" || q.Get("ego") == "1"
	if v := q.Get("hops"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			nq.hops = n
		}
	}
	if nq.hops < 1 {
		nq.hops = 1
	}
	if nq.hops > 4 {
		nq.hops = 4
	}

	switch q.Get("influence") {
	case "betweenness":
		nq.influence = "betweenness"
	case "closeness":
		nq.influence = "closeness"
	}

	return nq
}

// renderGraph applies the session's filters and optional ego reduction.
func (s *Server) renderGraph(r *http.Request) (*graph.Graph, []edges.Record, networkQuery, error) {
	sess := s.session(r)
	sess.Lock()
	records := sess.Edges
	sess.Unlock()

	nq := s.parseNetworkQuery(r)
	filtered := edges.Apply(records, nq.filter)
	g := graph.Build(filtered, nq.directed)

	if nq.ego && nq.focus != "" {
		ego, err := g.Ego(nq.focus, nq.hops)
		if err != nil {
			return nil, nil, nq, err
		}
		g = ego
	}
	return g, filtered, nq, nil
}

type edgeUploadResponse struct {
	Rows   int      `json:"rows"`
	Types  []string `json:"types"`
	Source string   `json:"source"`
}

func (s *Server) handleEdgeUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with a 'file' field")
		return
	}
	defer file.Close()

	var records []edges.Record
	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		records, err = edges.LoadExcel(file)
	} else {
		records, err = edges.LoadCSV(file)
	}
	if err != nil {
		writeValidationError(w, err)
		return
	}

	sess := s.session(r)
	sess.Lock()
	sess.Edges = records
	sess.EdgeSource = "upload:" + header.Filename
	sess.Unlock()

	s.log.Info("edge table uploaded",
		zap.String("session", sess.ID),
		zap.String("file", header.Filename),
		zap.Int("rows", len(records)))

	writeJSON(w, http.StatusOK, edgeUploadResponse{
		Rows:   len(records),
		Types:  edges.Types(records),
		Source: sess.EdgeSource,
	})
}

type networkViewResponse struct {
	Source          string               `json:"source"`
	Directed        bool                 `json:"directed"`
	NumNodes        int                  `json:"numNodes"`
	NumEdges        int                  `json:"numEdges"`
	FilteredRows    int                  `json:"filteredRows"`
	Nodes           []string             `json:"nodes"`
	Edges           []edges.Record       `json:"edges"`
	Measures        []graph.NodeMeasures `json:"measures"`
	Communities     [][]string           `json:"communities"`
	InfluenceBy     string               `json:"influenceBy"`
	MostInfluential *graph.NodeMeasures  `json:"mostInfluential,omitempty"`
}

func (s *Server) handleNetworkView(w http.ResponseWriter, r *http.Request) {
	g, filtered, nq, err := s.renderGraph(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.session(r)
	sess.Lock()
	source := sess.EdgeSource
	sess.Unlock()

	analysis := graph.Analyze(g)

	resp := networkViewResponse{
		Source:       source,
		Directed:     nq.directed,
		NumNodes:     g.NumNodes(),
		NumEdges:     g.NumEdges(),
		FilteredRows: len(filtered),
		Nodes:        g.Nodes(),
		Edges:        g.Records(),
		Measures:     analysis.Measures,
		Communities:  analysis.Communities,
		InfluenceBy:  nq.influence,
	}
	if most, ok := analysis.MostInfluential(nq.influence); ok {
		resp.MostInfluential = &most
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Lock()
	records := sess.Edges
	sess.Unlock()

	filtered := edges.Apply(records, s.parseNetworkQuery(r).filter)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_edges.csv"`)
	if err := edges.ExportCSV(w, filtered); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
	}
}

func (s *Server) handleExportGraphML(w http.ResponseWriter, r *http.Request) {
	g, _, _, err := s.renderGraph(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="network.graphml"`)
	if err := graph.WriteGraphML(w, g); err != nil {
		s.log.Error("graphml export failed", zap.Error(err))
	}
}
