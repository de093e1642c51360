// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
)

// RecordDependencies defines the interface for record reads.
type RecordDependencies interface {
	Records(ctx context.Context) []*model.Record
	ActiveRecord(ctx context.Context) *model.Record
}

// RecordsHandler handles record read requests.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// recordsResponse is the read shape for GET /v1/records.
type recordsResponse struct {
	Active  *model.Record   `json:"active,omitempty"`
	Records []*model.Record `json:"records"`
}

// HandleGetRecords handles GET /v1/records requests. The active card, when
// present, leads the list and repeats in the active field.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	resp := recordsResponse{
		Active:  h.deps.ActiveRecord(r.Context()),
		Records: h.deps.Records(r.Context()),
	}
	if resp.Records == nil {
		resp.Records = []*model.Record{}
	}
	writeJSON(w, http.StatusOK, resp)
}
