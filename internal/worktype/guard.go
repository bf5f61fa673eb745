package worktype

import (
	"log/slog"

	"github.com/vektora/capacity-admin/internal"
)

// Guard enforces the one destructive-mutation policy in the system:
// deactivating a work type that has historical time entries requires an
// explicit human confirmation. Creates and ordinary edits bypass it; they
// are non-destructive to historical integrity.
//
// Per attempt the flow is: check usage fresh; unused commits immediately;
// used without confirmation surfaces a ConfirmationRequired result and
// persists nothing; used with confirmation re-checks usage and commits. A
// cancelled confirmation simply never comes back, so no state is retained
// on this side.
type Guard struct {
	registry *Service
	usage    UsageChecker
	logger   *slog.Logger
}

func NewGuard(registry *Service, usageChecker UsageChecker, logger *slog.Logger) *Guard {
	return &Guard{
		registry: registry,
		usage:    usageChecker,
		logger:   logger,
	}
}

// DeactivationResult is either a committed work type or a pending
// confirmation, never both.
type DeactivationResult struct {
	WorkType     *WorkType             `json:"work_type,omitempty"`
	Confirmation *ConfirmationRequired `json:"confirmation_required,omitempty"`
}

// Committed reports whether the deactivation was persisted.
func (r *DeactivationResult) Committed() bool {
	return r.WorkType != nil
}

func (g *Guard) Deactivate(actor internal.Actor, id int64, dto DeactivateDTO) (*DeactivationResult, error) {
	if !actor.CanManageConfig() {
		g.logger.Warn("deactivate denied", "actor", actor.Email, "work_type_id", id)
		return nil, internal.ErrNotPermitted
	}

	wt, err := g.registry.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !wt.IsActive {
		return &DeactivationResult{WorkType: wt}, nil
	}

	info, err := g.usage.CheckUsage(id)
	if err != nil {
		return nil, err
	}

	if info.IsUsed && !dto.Confirmed {
		g.logger.Info("deactivation needs confirmation",
			"work_type_id", id,
			"usage_count", info.UsageCount,
			"actor", actor.Email)
		return &DeactivationResult{
			Confirmation: &ConfirmationRequired{
				WorkTypeID:   id,
				UsageCount:   info.UsageCount,
				LastUsedDate: info.LastUsedDate,
			},
		}, nil
	}

	// The usage answer above may already be stale; the page could have
	// been open for minutes before the admin confirmed. Re-check right
	// before committing to close the window.
	if info.IsUsed && dto.Confirmed {
		if _, err := g.usage.CheckUsage(id); err != nil {
			return nil, err
		}
	}

	updated, err := g.registry.setActive(actor, id, false, dto.Reason)
	if err != nil {
		// Registry errors surface unchanged; the guard holds no
		// partial state between attempts.
		return nil, err
	}

	return &DeactivationResult{WorkType: updated}, nil
}

// Reactivate needs no confirmation gate: restoring a type cannot damage
// historical integrity.
func (g *Guard) Reactivate(actor internal.Actor, id int64) (*WorkType, error) {
	if !actor.CanManageConfig() {
		g.logger.Warn("reactivate denied", "actor", actor.Email, "work_type_id", id)
		return nil, internal.ErrNotPermitted
	}
	return g.registry.setActive(actor, id, true, "")
}
