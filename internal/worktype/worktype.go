package worktype

import (
	"sort"
	"strings"
	"time"

	worktypeDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/worktype"
)

// PlanLevel is an ordered subscription tier. Ordering matters: a work type's
// minimum level is the lowest-ranked member of its allowed set.
type PlanLevel string

const (
	PlanStarter PlanLevel = "starter"
	PlanGrowth  PlanLevel = "growth"
	PlanScale   PlanLevel = "scale"
	PlanCustom  PlanLevel = "custom"
)

var planLevelRanks = map[PlanLevel]int{
	PlanStarter: 0,
	PlanGrowth:  1,
	PlanScale:   2,
	PlanCustom:  3,
}

// PlanLevels returns all levels in ascending order.
func PlanLevels() []PlanLevel {
	return []PlanLevel{PlanStarter, PlanGrowth, PlanScale, PlanCustom}
}

func (p PlanLevel) Valid() bool {
	_, ok := planLevelRanks[p]
	return ok
}

func (p PlanLevel) Rank() int {
	return planLevelRanks[p]
}

func ParsePlanLevel(s string) (PlanLevel, bool) {
	p := PlanLevel(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

type Category string

const (
	CategoryStrategic      Category = "strategic"
	CategoryOperational    Category = "operational"
	CategoryTechnical      Category = "technical"
	CategoryAdministrative Category = "administrative"
	CategoryLeadership     Category = "leadership"
)

func Categories() []Category {
	return []Category{
		CategoryStrategic,
		CategoryOperational,
		CategoryTechnical,
		CategoryAdministrative,
		CategoryLeadership,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryStrategic, CategoryOperational, CategoryTechnical, CategoryAdministrative, CategoryLeadership:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// WorkType classifies billable and internal activity. One hour of a work
// type converts to CreditsPerHour credits against the customer's capacity.
type WorkType struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	CreditsPerHour     float64     `json:"credits_per_hour"`
	InternalCostFactor float64     `json:"internal_cost_factor"`
	AllowedPlanLevels  []PlanLevel `json:"allowed_plan_levels"`
	Category           Category    `json:"category"`
	Billable           bool        `json:"billable"`
	IsActive           bool        `json:"is_active"`
	Version            int64       `json:"version"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// MinPlanLevel is the lowest-ranked member of AllowedPlanLevels. The allowed
// set is authoritative for gating; this is only a display hint for the UI.
func (w *WorkType) MinPlanLevel() PlanLevel {
	if len(w.AllowedPlanLevels) == 0 {
		return PlanStarter
	}
	min := w.AllowedPlanLevels[0]
	for _, p := range w.AllowedPlanLevels[1:] {
		if p.Rank() < min.Rank() {
			min = p
		}
	}
	return min
}

// AllowsPlan reports whether a subscription on the given level may consume
// this work type.
func (w *WorkType) AllowsPlan(level PlanLevel) bool {
	for _, p := range w.AllowedPlanLevels {
		if p == level {
			return true
		}
	}
	return false
}

// CreditsFor converts hours of this work type into credits.
func (w *WorkType) CreditsFor(hours float64) float64 {
	return hours * w.CreditsPerHour
}

func (w *WorkType) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = time.Now()
}

func (w *WorkType) Reactivate() {
	w.IsActive = true
	w.UpdatedAt = time.Now()
}

func normalizePlanLevels(levels []PlanLevel) []PlanLevel {
	seen := make(map[PlanLevel]bool, len(levels))
	var out []PlanLevel
	for _, p := range levels {
		if p.Valid() && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}

func encodePlanLevels(levels []PlanLevel) string {
	parts := make([]string, len(levels))
	for i, p := range levels {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func decodePlanLevels(encoded string) []PlanLevel {
	if encoded == "" {
		return nil
	}
	var out []PlanLevel
	for _, part := range strings.Split(encoded, ",") {
		if p, ok := ParsePlanLevel(part); ok {
			out = append(out, p)
		}
	}
	return normalizePlanLevels(out)
}

func ToDataModel(w *WorkType) *worktypeDatamodel.WorkType {
	return &worktypeDatamodel.WorkType{
		ID:                 w.ID,
		Name:               w.Name,
		Description:        w.Description,
		CreditsPerHour:     w.CreditsPerHour,
		InternalCostFactor: w.InternalCostFactor,
		AllowedPlanLevels:  encodePlanLevels(w.AllowedPlanLevels),
		Category:           string(w.Category),
		Billable:           w.Billable,
		IsActive:           w.IsActive,
		Version:            w.Version,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

func FromDataModel(w *worktypeDatamodel.WorkType) *WorkType {
	return &WorkType{
		ID:                 w.ID,
		Name:               w.Name,
		Description:        w.Description,
		CreditsPerHour:     w.CreditsPerHour,
		InternalCostFactor: w.InternalCostFactor,
		AllowedPlanLevels:  decodePlanLevels(w.AllowedPlanLevels),
		Category:           Category(w.Category),
		Billable:           w.Billable,
		IsActive:           w.IsActive,
		Version:            w.Version,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*worktypeDatamodel.WorkType) []*WorkType {
	result := make([]*WorkType, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
