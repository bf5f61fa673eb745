package worktype

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/transport"
	"github.com/vektora/capacity-admin/internal/usage"
)

type ServiceAPI interface {
	List(includeInactive bool) ([]*WorkType, error)
	ListWithUsage(includeInactive bool) ([]WorkTypeResponse, error)
	GetByID(id int64) (*WorkType, error)
	Create(actor internal.Actor, dto CreateWorkTypeDTO) (*WorkType, error)
	Update(actor internal.Actor, id int64, dto UpdateWorkTypeDTO) (*WorkType, error)
	Delete(actor internal.Actor, id int64) error
	Usage(id int64) (usage.Info, error)
}

type GuardAPI interface {
	Deactivate(actor internal.Actor, id int64, dto DeactivateDTO) (*DeactivationResult, error)
	Reactivate(actor internal.Actor, id int64) (*WorkType, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Guard   GuardAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, guard GuardAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Guard:       guard,
	}
}

func (h *Handler) ListWorkTypes(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	workTypes, err := h.Service.ListWithUsage(includeInactive)
	if err != nil {
		h.Logger.Error("ListWorkTypes: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, WorkTypesResponse{WorkTypes: workTypes})
}

func (h *Handler) CreateWorkType(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWorkTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateWorkType: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wt, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, wt)
}

func (h *Handler) UpdateWorkType(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work type ID")
		return
	}

	var dto UpdateWorkTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateWorkType: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wt, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wt)
}

// DeactivateWorkType returns 200 with the updated work type when the change
// committed, and 202 with a confirmation payload when the type has history
// and the request did not carry confirmed=true. The 202 is a result, not an
// error: nothing was persisted and the client re-posts with confirmation.
func (h *Handler) DeactivateWorkType(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work type ID")
		return
	}

	var dto DeactivateDTO
	if r.Body != nil {
		// an empty body means an unconfirmed attempt
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	result, err := h.Guard.Deactivate(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if !result.Committed() {
		h.WriteJSON(w, http.StatusAccepted, result)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ReactivateWorkType(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work type ID")
		return
	}

	wt, err := h.Guard.Reactivate(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wt)
}

func (h *Handler) DeleteWorkType(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work type ID")
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GetWorkTypeUsage(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work type ID")
		return
	}

	info, err := h.Service.Usage(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
