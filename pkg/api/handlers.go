package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mediakit/ffcheck/pkg/analyzer"
	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/parser"
	"github.com/mediakit/ffcheck/pkg/render"
	"github.com/mediakit/ffcheck/pkg/schemas"
	"github.com/mediakit/ffcheck/pkg/script"
	"github.com/mediakit/ffcheck/pkg/storage"
	"github.com/mediakit/ffcheck/pkg/store"
	"github.com/mediakit/ffcheck/pkg/tracker"
)

// Server handles HTTP requests for the analysis API
type Server struct {
	store     store.Store
	analyzer  *analyzer.Analyzer
	db        *knowledge.Database
	startTime time.Time
}

// NewServer creates a new API server backed by the given store and
// knowledge database
func NewServer(st store.Store, db *knowledge.Database) *Server {
	return &Server{
		store:     st,
		analyzer:  analyzer.NewWithDatabase(db),
		db:        db,
		startTime: time.Now(),
	}
}

// AnalyzeRequest is the payload for analyzing a single command line
type AnalyzeRequest struct {
	Content      string `json:"content"`
	FilePath     string `json:"file_path,omitempty"`
	LineOffset   int    `json:"line_offset,omitempty"`
	ColumnOffset int    `json:"column_offset,omitempty"`
}

// AnalyzeResponse is the result of a stored analysis
type AnalyzeResponse struct {
	ID           string                      `json:"id"`
	FilePath     string                      `json:"file_path,omitempty"`
	Diagnostics  schemas.AnalyzerDiagnostics `json:"diagnostics"`
	ErrorCount   int                         `json:"error_count"`
	WarningCount int                         `json:"warning_count"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// DocumentAnalyzeRequest asks for analysis of a whole script. Exactly one
// of URI and Content must be set.
type DocumentAnalyzeRequest struct {
	URI      string `json:"uri,omitempty"`
	Content  string `json:"content,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// CommandResult is the analysis of one command within a document
type CommandResult struct {
	Line         int                         `json:"line"`
	Column       int                         `json:"column"`
	Command      string                      `json:"command"`
	Diagnostics  schemas.AnalyzerDiagnostics `json:"diagnostics"`
	ErrorCount   int                         `json:"error_count"`
	WarningCount int                         `json:"warning_count"`
}

// DocumentAnalyzeResponse aggregates per-command results for a document
type DocumentAnalyzeResponse struct {
	Commands     []CommandResult `json:"commands"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
}

// DiagramRequest asks for a pipeline diagram of a single command
type DiagramRequest struct {
	Content string `json:"content"`
}

// DiagramResponse carries the rendered Mermaid source
type DiagramResponse struct {
	Mermaid string `json:"mermaid"`
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HandleAnalyze analyzes one command line and stores the result
// POST /api/v1/analyze
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		s.sendError(w, http.StatusBadRequest, "content is required")
		return
	}

	diagnostics := s.analyzer.AnalyzeText(req.Content, req.LineOffset, req.ColumnOffset)
	errorCount, warningCount := diagnostics.Counts()
	recordAnalysis(errorCount, warningCount)

	analysis := &store.Analysis{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		FilePath:     req.FilePath,
		Content:      req.Content,
		LineOffset:   req.LineOffset,
		ColumnOffset: req.ColumnOffset,
		Diagnostics:  diagnostics,
		ErrorCount:   errorCount,
		WarningCount: warningCount,
	}

	if err := s.store.Create(r.Context(), analysis); err != nil {
		log.Printf("failed to store analysis: %v", err)
		s.sendError(w, http.StatusInternalServerError, "failed to store analysis")
		return
	}

	s.sendJSON(w, http.StatusCreated, AnalyzeResponse{
		ID:           analysis.ID,
		FilePath:     analysis.FilePath,
		Diagnostics:  analysis.Diagnostics,
		ErrorCount:   analysis.ErrorCount,
		WarningCount: analysis.WarningCount,
		CreatedAt:    analysis.CreatedAt,
	})
}

// HandleAnalyzeDocument analyzes every command in a script document,
// fetched from a URI or supplied inline
// POST /api/v1/documents/analyze
func (s *Server) HandleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req DocumentAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if (req.URI == "") == (req.Content == "") {
		s.sendError(w, http.StatusBadRequest, "exactly one of uri and content must be set")
		return
	}

	content := req.Content
	if req.URI != "" {
		var err error
		content, err = storage.ReadDocument(r.Context(), req.URI)
		if err != nil {
			s.sendError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch document: %v", err))
			return
		}
	}

	resp := DocumentAnalyzeResponse{Commands: []CommandResult{}}
	for _, cmd := range script.Split(content) {
		diagnostics := s.analyzer.AnalyzeText(cmd.Text, cmd.Line, cmd.Column)
		errorCount, warningCount := diagnostics.Counts()
		recordAnalysis(errorCount, warningCount)

		resp.Commands = append(resp.Commands, CommandResult{
			Line:         cmd.Line,
			Column:       cmd.Column,
			Command:      cmd.Text,
			Diagnostics:  diagnostics,
			ErrorCount:   errorCount,
			WarningCount: warningCount,
		})
		resp.ErrorCount += errorCount
		resp.WarningCount += warningCount
	}

	s.sendJSON(w, http.StatusOK, resp)
}

// HandleDiagram renders a Mermaid pipeline diagram for a command
// POST /api/v1/diagram
func (s *Server) HandleDiagram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req DiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		s.sendError(w, http.StatusBadRequest, "content is required")
		return
	}

	cmd, err := parser.Parse(req.Content, 0, 0)
	if err != nil {
		s.sendError(w, http.StatusUnprocessableEntity, fmt.Sprintf("failed to parse command: %v", err))
		return
	}

	builder := tracker.NewBuilder(s.db)
	builder.AnalyzeInputs(cmd.Inputs)
	tr := builder.Freeze()

	s.sendJSON(w, http.StatusOK, DiagramResponse{
		Mermaid: render.PipelineDiagram(cmd, tr, s.db),
	})
}

// HandleGetAnalysis returns a stored analysis by ID
// GET /api/v1/analyses/{id}
func (s *Server) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := extractAnalysisID(r.URL.Path)
	if id == "" {
		s.sendError(w, http.StatusBadRequest, "analysis ID is required")
		return
	}

	analysis, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.handleStoreError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, analysis)
}

// HandleListAnalyses returns stored analyses matching the query filters
// GET /api/v1/analyses
func (s *Server) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := parseListFilter(r)
	analyses, err := s.store.List(r.Context(), filter)
	if err != nil {
		log.Printf("failed to list analyses: %v", err)
		s.sendError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// HandleDeleteAnalysis removes a stored analysis
// DELETE /api/v1/analyses/{id}
func (s *Server) HandleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := extractAnalysisID(r.URL.Path)
	if id == "" {
		s.sendError(w, http.StatusBadRequest, "analysis ID is required")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth returns service health status
// GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "ffcheck-api",
		"uptime":  time.Since(s.startTime).String(),
	})
}

// Close shuts down the server's store
func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrAnalysisNotFound):
		s.sendError(w, http.StatusNotFound, "analysis not found")
	case errors.Is(err, store.ErrInvalidAnalysisID):
		s.sendError(w, http.StatusBadRequest, "invalid analysis ID")
	default:
		log.Printf("store error: %v", err)
		s.sendError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// parseListFilter builds a store filter from query parameters
func parseListFilter(r *http.Request) *store.ListFilter {
	filter := &store.ListFilter{}
	q := r.URL.Query()

	if fp := q.Get("file_path"); fp != "" {
		filter.FilePath = fp
	}
	if we := q.Get("with_errors"); we == "true" {
		filter.WithErrors = true
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	return filter
}

// extractAnalysisID pulls the analysis ID out of the request path
func extractAnalysisID(path string) string {
	const prefix = "/api/v1/analyses/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	id := strings.TrimPrefix(path, prefix)
	return strings.TrimSuffix(id, "/")
}
