package audit

import (
	"net/http"
	"strconv"

	"github.com/vektora/capacity-admin/internal/transport"
)

type ServiceAPI interface {
	History(entityType string, limit int) ([]Record, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

type HistoryResponse struct {
	Entries []Record `json:"entries"`
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	if entityType == "" {
		entityType = EntityTypeWorkType
	}

	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.Service.History(entityType, limit)
	if err != nil {
		h.Logger.Error("GetHistory: service error", "error", err, "entity_type", entityType)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}
