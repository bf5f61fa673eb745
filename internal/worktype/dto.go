package worktype

import (
	"time"

	"github.com/vektora/capacity-admin/internal"
)

// CreateWorkTypeDTO is the request payload for creating a work type.
type CreateWorkTypeDTO struct {
	Name               string   `json:"name" validate:"required"`
	Description        string   `json:"description"`
	CreditsPerHour     float64  `json:"credits_per_hour" validate:"required,gt=0"`
	InternalCostFactor *float64 `json:"internal_cost_factor,omitempty"`
	AllowedPlanLevels  []string `json:"allowed_plan_levels" validate:"required,min=1"`
	Category           string   `json:"category" validate:"required"`
	Billable           *bool    `json:"billable,omitempty"`
}

func (dto CreateWorkTypeDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeInvalidName)
	}
	if dto.CreditsPerHour <= 0 {
		return internal.NewValidationFieldError("credits_per_hour", "credits per hour must be greater than 0", internal.ErrCodeInvalidCredits)
	}
	if dto.InternalCostFactor != nil && *dto.InternalCostFactor <= 0 {
		return internal.NewValidationFieldError("internal_cost_factor", "internal cost factor must be greater than 0", internal.ErrCodeInvalidCostFactor)
	}
	if _, ok := ParseCategory(dto.Category); !ok {
		return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
	}
	if len(dto.AllowedPlanLevels) == 0 {
		return internal.NewValidationFieldError("allowed_plan_levels", "at least one plan level is required", internal.ErrCodeInvalidPlanLevel)
	}
	for _, raw := range dto.AllowedPlanLevels {
		if _, ok := ParsePlanLevel(raw); !ok {
			return internal.NewValidationFieldError("allowed_plan_levels", "unknown plan level: "+raw, internal.ErrCodeInvalidPlanLevel)
		}
	}
	return nil
}

// UpdateWorkTypeDTO is a partial patch; nil fields are left untouched.
// Version carries the value the editor originally read.
type UpdateWorkTypeDTO struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	CreditsPerHour     *float64 `json:"credits_per_hour,omitempty"`
	InternalCostFactor *float64 `json:"internal_cost_factor,omitempty"`
	AllowedPlanLevels  []string `json:"allowed_plan_levels,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Billable           *bool    `json:"billable,omitempty"`
	Version            int64    `json:"version"`
}

func (dto UpdateWorkTypeDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeInvalidName)
	}
	if dto.CreditsPerHour != nil && *dto.CreditsPerHour <= 0 {
		return internal.NewValidationFieldError("credits_per_hour", "credits per hour must be greater than 0", internal.ErrCodeInvalidCredits)
	}
	if dto.InternalCostFactor != nil && *dto.InternalCostFactor <= 0 {
		return internal.NewValidationFieldError("internal_cost_factor", "internal cost factor must be greater than 0", internal.ErrCodeInvalidCostFactor)
	}
	if dto.Category != nil {
		if _, ok := ParseCategory(*dto.Category); !ok {
			return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
		}
	}
	for _, raw := range dto.AllowedPlanLevels {
		if _, ok := ParsePlanLevel(raw); !ok {
			return internal.NewValidationFieldError("allowed_plan_levels", "unknown plan level: "+raw, internal.ErrCodeInvalidPlanLevel)
		}
	}
	return nil
}

// DeactivateDTO carries the confirmation decision for deactivating a work
// type that has historical usage.
type DeactivateDTO struct {
	Confirmed bool   `json:"confirmed"`
	Reason    string `json:"reason,omitempty"`
}

// WorkTypeResponse is what the settings page renders per row: the definition
// plus its usage shadow and the derived minimum plan level.
type WorkTypeResponse struct {
	*WorkType
	MinPlanLevel PlanLevel      `json:"min_plan_level"`
	Usage        *UsageSnapshot `json:"usage,omitempty"`
}

// UsageSnapshot mirrors usage.Info without importing the usage package; the
// service attaches it when listing with annotations.
type UsageSnapshot struct {
	IsUsed       bool       `json:"is_used"`
	UsageCount   int64      `json:"usage_count"`
	LastUsedDate *time.Time `json:"last_used_date,omitempty"`
}

// ConfirmationRequired is the structured "needs confirmation" outcome of a
// deactivation attempt. It is a result, not an error: nothing was persisted.
type ConfirmationRequired struct {
	WorkTypeID   int64      `json:"work_type_id"`
	UsageCount   int64      `json:"usage_count"`
	LastUsedDate *time.Time `json:"last_used_date,omitempty"`
}

type WorkTypesResponse struct {
	WorkTypes []WorkTypeResponse `json:"work_types"`
}
