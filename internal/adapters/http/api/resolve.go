// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/query"
)

// ResolveDependencies defines the interface for query resolution.
type ResolveDependencies interface {
	Resolve(ctx context.Context, text string, reset bool) (*model.Record, []query.Score)
}

// ResolveHandler handles free-text query resolution requests.
type ResolveHandler struct {
	deps ResolveDependencies
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps ResolveDependencies) *ResolveHandler {
	return &ResolveHandler{deps: deps}
}

// resolveResponse is the read shape for POST /v1/resolve.
type resolveResponse struct {
	Match  *model.Record `json:"match"`
	Scores []query.Score `json:"scores"`
}

// HandleResolve handles POST /v1/resolve requests. Each call appends text
// to the running description; reset starts a fresh query.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Text) == "" && !req.Reset {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing text")))
		return
	}

	match, scores := h.deps.Resolve(r.Context(), req.Text, req.Reset)
	if scores == nil {
		scores = []query.Score{}
	}
	writeJSON(w, http.StatusOK, resolveResponse{Match: match, Scores: scores})
}
