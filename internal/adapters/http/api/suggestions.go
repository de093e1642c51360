// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/Naveen701372/Networking-Wingman/internal/app"
)

// SuggestionDependencies defines the interface for the suggestion ledger.
type SuggestionDependencies interface {
	Suggestions(ctx context.Context) []service.Suggestion
	AcceptSuggestion(ctx context.Context, id string) error
	DismissSuggestion(ctx context.Context, id string) error
}

// SuggestionsHandler handles pending proposal review requests.
type SuggestionsHandler struct {
	deps SuggestionDependencies
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(deps SuggestionDependencies) *SuggestionsHandler {
	return &SuggestionsHandler{deps: deps}
}

// suggestionsResponse is the read shape for GET /v1/suggestions.
type suggestionsResponse struct {
	Suggestions []service.Suggestion `json:"suggestions"`
}

// HandleList handles GET /v1/suggestions requests.
func (h *SuggestionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	out := h.deps.Suggestions(r.Context())
	if out == nil {
		out = []service.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: out})
}

// HandleAction routes POST /v1/suggestions/{id}/accept and
// POST /v1/suggestions/{id}/dismiss.
func (h *SuggestionsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/suggestions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id := parts[0]

	var err error
	switch parts[1] {
	case "accept":
		err = h.deps.AcceptSuggestion(r.Context(), id)
	case "dismiss":
		err = h.deps.DismissSuggestion(r.Context(), id)
	default:
		http.NotFound(w, r)
		return
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
	case errors.Is(err, service.ErrSuggestionUnknown):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrSuggestionStale):
		writeError(w, http.StatusConflict, "stale", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
