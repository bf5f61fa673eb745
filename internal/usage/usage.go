package usage

import "time"

// Info is the usage shadow of one work type: derived on demand, never
// stored. Time entries are written continuously by unrelated workflows, so
// a cached answer could let a type be deactivated right after it was used.
type Info struct {
	WorkTypeID   int64      `json:"work_type_id"`
	IsUsed       bool       `json:"is_used"`
	UsageCount   int64      `json:"usage_count"`
	LastUsedDate *time.Time `json:"last_used_date,omitempty"`
}
