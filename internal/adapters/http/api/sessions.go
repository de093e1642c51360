// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	IngestSegment(ctx context.Context, seg model.Segment) bool
	EndSession(ctx context.Context, sessionID string) bool
}

// SessionsHandler handles segment ingestion and session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleSessions routes POST /v1/sessions/{id}/segments and
// POST /v1/sessions/{id}/end.
func (h *SessionsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sessionID := parts[0]

	switch parts[1] {
	case "segments":
		h.handlePostSegment(w, r, sessionID)
	case "end":
		h.handleEndSession(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

// handlePostSegment accepts one transcript segment for async processing.
func (h *SessionsHandler) handlePostSegment(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_segment"
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ts := time.Now()
	if req.TS != "" {
		parsed, err := time.Parse(time.RFC3339, req.TS)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		ts = parsed
	}

	seg := model.Segment{
		SegmentID: req.SegmentID,
		SessionID: sessionID,
		Text:      req.Text,
		IsFinal:   req.IsFinal,
		TS:        ts,
	}
	if ok := h.deps.IngestSegment(r.Context(), seg); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// handleEndSession finishes a session deterministically.
func (h *SessionsHandler) handleEndSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if ok := h.deps.EndSession(r.Context(), sessionID); !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrSessionUnknown)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ended"})
}
