package worktype

import (
	"log/slog"
	"time"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/audit"
	worktypeDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/worktype"
	"github.com/vektora/capacity-admin/internal/usage"
)

// RepositoryAPI is the data access surface for work-type definitions.
type RepositoryAPI interface {
	GetAll(includeInactive bool) ([]*worktypeDatamodel.WorkType, error)
	GetByID(id int64) (*worktypeDatamodel.WorkType, error)
	GetByName(name string) (*worktypeDatamodel.WorkType, error)
	Create(row *worktypeDatamodel.WorkType) error
	// UpdateVersioned persists the row only if the stored version still
	// equals expectedVersion. Returns false when a concurrent editor won.
	UpdateVersioned(row *worktypeDatamodel.WorkType, expectedVersion int64) (bool, error)
	Delete(id int64) error
}

// AuditRecorder is the append-only change trail collaborator.
type AuditRecorder interface {
	Record(entry audit.Entry) error
}

// UsageChecker answers whether a work type is referenced by time entries.
type UsageChecker interface {
	CheckUsage(workTypeID int64) (usage.Info, error)
}

// Service is the authoritative registry of work-type definitions. It trusts
// its callers on deactivation policy: the Guard resolves usage confirmation
// before an is_active flip ever reaches the registry.
type Service struct {
	repo    RepositoryAPI
	auditor AuditRecorder
	usage   UsageChecker
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, auditor AuditRecorder, usageChecker UsageChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		usage:   usageChecker,
		logger:  logger,
	}
}

// List returns all work types ordered by name. When includeInactive is
// false, only active definitions are returned. Empty result is valid.
func (s *Service) List(includeInactive bool) ([]*WorkType, error) {
	rows, err := s.repo.GetAll(includeInactive)
	if err != nil {
		s.logger.Error("failed to list work types", "error", err)
		return nil, internal.NewDataAccessError("failed to list work types", err)
	}
	return FromDataModelSlice(rows), nil
}

// ListWithUsage attaches a fresh usage snapshot to every work type for the
// settings page. Usage is recomputed on every load; no caching.
func (s *Service) ListWithUsage(includeInactive bool) ([]WorkTypeResponse, error) {
	workTypes, err := s.List(includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]WorkTypeResponse, 0, len(workTypes))
	for _, wt := range workTypes {
		info, err := s.usage.CheckUsage(wt.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, WorkTypeResponse{
			WorkType:     wt,
			MinPlanLevel: wt.MinPlanLevel(),
			Usage: &UsageSnapshot{
				IsUsed:       info.IsUsed,
				UsageCount:   info.UsageCount,
				LastUsedDate: info.LastUsedDate,
			},
		})
	}
	return responses, nil
}

func (s *Service) GetByID(id int64) (*WorkType, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get work type", "error", err, "work_type_id", id)
		return nil, internal.NewDataAccessError("failed to get work type", err)
	}
	if row == nil {
		return nil, internal.ErrWorkTypeNotFound
	}
	return FromDataModel(row), nil
}

// Create validates and persists a new work type and records one audit entry
// describing the creation.
func (s *Service) Create(actor internal.Actor, dto CreateWorkTypeDTO) (*WorkType, error) {
	if !actor.CanManageConfig() {
		s.logger.Warn("create work type denied", "actor", actor.Email, "role", actor.Role)
		return nil, internal.ErrNotPermitted
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("work type validation failed", "error", err, "name", dto.Name)
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		return nil, internal.NewDataAccessError("failed to check work type name", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateName
	}

	costFactor := 1.0
	if dto.InternalCostFactor != nil {
		costFactor = *dto.InternalCostFactor
	}
	billable := true
	if dto.Billable != nil {
		billable = *dto.Billable
	}

	levels := make([]PlanLevel, 0, len(dto.AllowedPlanLevels))
	for _, raw := range dto.AllowedPlanLevels {
		level, _ := ParsePlanLevel(raw)
		levels = append(levels, level)
	}
	category, _ := ParseCategory(dto.Category)

	now := time.Now()
	wt := &WorkType{
		Name:               dto.Name,
		Description:        dto.Description,
		CreditsPerHour:     dto.CreditsPerHour,
		InternalCostFactor: costFactor,
		AllowedPlanLevels:  normalizePlanLevels(levels),
		Category:           category,
		Billable:           billable,
		IsActive:           true,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	row := ToDataModel(wt)
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create work type", "error", err, "name", dto.Name)
		return nil, internal.NewDataAccessError("failed to create work type", err)
	}
	wt.ID = row.ID

	if err := s.auditor.Record(audit.Entry{
		EntityType:     audit.EntityTypeWorkType,
		EntityID:       wt.ID,
		Action:         audit.ActionCreate,
		Description:    "created work type " + wt.Name,
		ChangedBy:      actor.Email,
		ChangedByEmail: actor.Email,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("work type created",
		"work_type_id", wt.ID,
		"name", wt.Name,
		"credits_per_hour", wt.CreditsPerHour,
		"actor", actor.Email)
	return wt, nil
}

// Update applies a partial patch under optimistic concurrency and records
// one audit entry carrying a field change per modified field. It never
// touches is_active; the Guard owns that transition.
func (s *Service) Update(actor internal.Actor, id int64, dto UpdateWorkTypeDTO) (*WorkType, error) {
	if !actor.CanManageConfig() {
		s.logger.Warn("update work type denied", "actor", actor.Email, "work_type_id", id)
		return nil, internal.ErrNotPermitted
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("work type patch validation failed", "error", err, "work_type_id", id)
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewDataAccessError("failed to get work type", err)
	}
	if row == nil {
		return nil, internal.ErrWorkTypeNotFound
	}
	if dto.Version != 0 && dto.Version != row.Version {
		s.logger.Warn("stale work type update rejected",
			"work_type_id", id,
			"sent_version", dto.Version,
			"stored_version", row.Version)
		return nil, internal.ErrVersionMismatch
	}

	current := FromDataModel(row)
	updated := *current
	var changes []audit.FieldChange

	if dto.Name != nil && *dto.Name != current.Name {
		existing, err := s.repo.GetByName(*dto.Name)
		if err != nil {
			return nil, internal.NewDataAccessError("failed to check work type name", err)
		}
		if existing != nil && existing.ID != id {
			return nil, internal.ErrDuplicateName
		}
		changes = append(changes, audit.FieldChange{Field: "name", Old: current.Name, New: *dto.Name})
		updated.Name = *dto.Name
	}
	if dto.Description != nil && *dto.Description != current.Description {
		changes = append(changes, audit.FieldChange{Field: "description", Old: current.Description, New: *dto.Description})
		updated.Description = *dto.Description
	}
	if dto.CreditsPerHour != nil && *dto.CreditsPerHour != current.CreditsPerHour {
		changes = append(changes, audit.FieldChange{Field: "credits_per_hour", Old: current.CreditsPerHour, New: *dto.CreditsPerHour})
		updated.CreditsPerHour = *dto.CreditsPerHour
	}
	if dto.InternalCostFactor != nil && *dto.InternalCostFactor != current.InternalCostFactor {
		changes = append(changes, audit.FieldChange{Field: "internal_cost_factor", Old: current.InternalCostFactor, New: *dto.InternalCostFactor})
		updated.InternalCostFactor = *dto.InternalCostFactor
	}
	if dto.AllowedPlanLevels != nil {
		levels := make([]PlanLevel, 0, len(dto.AllowedPlanLevels))
		for _, raw := range dto.AllowedPlanLevels {
			level, _ := ParsePlanLevel(raw)
			levels = append(levels, level)
		}
		normalized := normalizePlanLevels(levels)
		if encodePlanLevels(normalized) != encodePlanLevels(current.AllowedPlanLevels) {
			changes = append(changes, audit.FieldChange{
				Field: "allowed_plan_levels",
				Old:   encodePlanLevels(current.AllowedPlanLevels),
				New:   encodePlanLevels(normalized),
			})
			updated.AllowedPlanLevels = normalized
		}
	}
	if dto.Category != nil {
		category, _ := ParseCategory(*dto.Category)
		if category != current.Category {
			changes = append(changes, audit.FieldChange{Field: "category", Old: string(current.Category), New: string(category)})
			updated.Category = category
		}
	}
	if dto.Billable != nil && *dto.Billable != current.Billable {
		changes = append(changes, audit.FieldChange{Field: "billable", Old: current.Billable, New: *dto.Billable})
		updated.Billable = *dto.Billable
	}

	if len(changes) == 0 {
		return current, nil
	}

	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now()

	ok, err := s.repo.UpdateVersioned(ToDataModel(&updated), current.Version)
	if err != nil {
		s.logger.Error("failed to update work type", "error", err, "work_type_id", id)
		return nil, internal.NewDataAccessError("failed to update work type", err)
	}
	if !ok {
		return nil, internal.ErrVersionMismatch
	}

	if err := s.auditor.Record(audit.Entry{
		EntityType:     audit.EntityTypeWorkType,
		EntityID:       id,
		Action:         audit.ActionUpdate,
		Changes:        changes,
		ChangedBy:      actor.Email,
		ChangedByEmail: actor.Email,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("work type updated",
		"work_type_id", id,
		"fields_changed", len(changes),
		"version", updated.Version,
		"actor", actor.Email)
	return &updated, nil
}

// Delete hard-removes a work type. Only ever allowed for types with no
// historical time entries; used types are deactivated instead.
func (s *Service) Delete(actor internal.Actor, id int64) error {
	if !actor.CanManageConfig() {
		s.logger.Warn("delete work type denied", "actor", actor.Email, "work_type_id", id)
		return internal.ErrNotPermitted
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewDataAccessError("failed to get work type", err)
	}
	if row == nil {
		return internal.ErrWorkTypeNotFound
	}

	info, err := s.usage.CheckUsage(id)
	if err != nil {
		return err
	}
	if info.UsageCount > 0 {
		s.logger.Warn("refused to delete used work type",
			"work_type_id", id,
			"usage_count", info.UsageCount)
		return internal.ErrWorkTypeInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete work type", "error", err, "work_type_id", id)
		return internal.NewDataAccessError("failed to delete work type", err)
	}

	if err := s.auditor.Record(audit.Entry{
		EntityType:     audit.EntityTypeWorkType,
		EntityID:       id,
		Action:         audit.ActionDelete,
		Description:    "deleted work type " + row.Name,
		ChangedBy:      actor.Email,
		ChangedByEmail: actor.Email,
	}); err != nil {
		return err
	}

	s.logger.Info("work type deleted", "work_type_id", id, "name", row.Name, "actor", actor.Email)
	return nil
}

// Usage returns the fresh usage shadow for one work type.
func (s *Service) Usage(id int64) (usage.Info, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return usage.Info{}, internal.NewDataAccessError("failed to get work type", err)
	}
	if row == nil {
		return usage.Info{}, internal.ErrWorkTypeNotFound
	}
	return s.usage.CheckUsage(id)
}

// setActive flips is_active and records exactly one audit entry. Only the
// Guard calls this, after the confirmation policy has been resolved.
func (s *Service) setActive(actor internal.Actor, id int64, active bool, reason string) (*WorkType, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewDataAccessError("failed to get work type", err)
	}
	if row == nil {
		return nil, internal.ErrWorkTypeNotFound
	}

	current := FromDataModel(row)
	if current.IsActive == active {
		return current, nil
	}

	updated := *current
	updated.IsActive = active
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now()

	ok, err := s.repo.UpdateVersioned(ToDataModel(&updated), current.Version)
	if err != nil {
		s.logger.Error("failed to change work type active flag", "error", err, "work_type_id", id)
		return nil, internal.NewDataAccessError("failed to update work type", err)
	}
	if !ok {
		return nil, internal.ErrVersionMismatch
	}

	action := audit.ActionReactivate
	if !active {
		action = audit.ActionDeactivate
	}
	if err := s.auditor.Record(audit.Entry{
		EntityType:     audit.EntityTypeWorkType,
		EntityID:       id,
		Action:         action,
		Changes:        []audit.FieldChange{{Field: "is_active", Old: current.IsActive, New: active}},
		ChangedBy:      actor.Email,
		ChangedByEmail: actor.Email,
		Reason:         reason,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("work type active flag changed",
		"work_type_id", id,
		"is_active", active,
		"actor", actor.Email)
	return &updated, nil
}
