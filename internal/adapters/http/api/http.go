// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/Naveen701372/Networking-Wingman/internal/app"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IngestSegment pushes a transcript segment for async processing.
	// Returns false on backpressure.
	IngestSegment(ctx context.Context, seg model.Segment) bool

	// EndSession finishes the named session. Returns false when the
	// session is not the live one.
	EndSession(ctx context.Context, sessionID string) bool

	// Read operations expose record and query data.
	Records(ctx context.Context) []*model.Record
	ActiveRecord(ctx context.Context) *model.Record
	Resolve(ctx context.Context, text string, reset bool) (*model.Record, []query.Score)

	// Suggestion ledger operations.
	Suggestions(ctx context.Context) []service.Suggestion
	AcceptSuggestion(ctx context.Context, id string) error
	DismissSuggestion(ctx context.Context, id string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionsHandler    *SessionsHandler
	recordsHandler     *RecordsHandler
	resolveHandler     *ResolveHandler
	suggestionsHandler *SuggestionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionsHandler:    NewSessionsHandler(deps),
		recordsHandler:     NewRecordsHandler(deps),
		resolveHandler:     NewResolveHandler(deps),
		suggestionsHandler: NewSuggestionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/v1/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/v1/resolve", MetricsMiddleware(s.resolveHandler.HandleResolve, "resolve"))
	mux.HandleFunc("/v1/suggestions", MetricsMiddleware(s.suggestionsHandler.HandleList, "suggestions"))
	mux.HandleFunc("/v1/suggestions/", MetricsMiddleware(s.suggestionsHandler.HandleAction, "suggestions"))
}

// segmentRequest mirrors the wire schema for POST /v1/sessions/{id}/segments.
type segmentRequest struct {
	SegmentID string `json:"segment_id"`
	Text      string `json:"text"`
	IsFinal   bool   `json:"is_final"`
	TS        string `json:"ts"`
}

func (s segmentRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SegmentID) == "":
		return errors.New("missing segment_id")
	case strings.TrimSpace(s.Text) == "":
		return errors.New("missing text")
	}
	return nil
}

// resolveRequest mirrors the wire schema for POST /v1/resolve.
type resolveRequest struct {
	Text  string `json:"text"`
	Reset bool   `json:"reset"`
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
