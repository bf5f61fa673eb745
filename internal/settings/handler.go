package settings

import (
	"encoding/json"
	"net/http"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/transport"
)

type ServiceAPI interface {
	Load() (*Aggregate, error)
	SaveCompanyProfile(actor internal.Actor, agg *Aggregate) error
	SaveTimeEntryRules(actor internal.Actor, agg *Aggregate) error
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	agg, err := h.Service.Load()
	if err != nil {
		h.Logger.Error("GetSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SettingsResponse{
		Settings:            agg.Current,
		CompanyProfileDirty: agg.CompanyProfileDirty(),
		TimeEntryRulesDirty: agg.TimeEntryRulesDirty(),
	})
}

// SaveCompanyProfile applies the sub-form onto a fresh aggregate and saves
// it. On validation failure the typed values are echoed back so the form
// does not lose input.
func (h *Handler) SaveCompanyProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CompanyProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SaveCompanyProfile: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg, err := h.Service.Load()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	agg.ApplyCompanyProfile(dto)

	if err := h.Service.SaveCompanyProfile(actor, agg); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SettingsResponse{Settings: agg.Current})
}

func (h *Handler) SaveTimeEntryRules(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TimeEntryRulesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SaveTimeEntryRules: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg, err := h.Service.Load()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	agg.ApplyTimeEntryRules(dto)

	if err := h.Service.SaveTimeEntryRules(actor, agg); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SettingsResponse{Settings: agg.Current})
}
