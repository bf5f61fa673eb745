package audit

import (
	"fmt"
	"strconv"
	"time"

	auditDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/audit"
)

const (
	EntityTypeWorkType       = "work_type"
	EntityTypeSystemSettings = "system_settings"
)

const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDeactivate = "deactivate"
	ActionReactivate = "reactivate"
	ActionDelete     = "delete"
)

// FieldChange is a typed (field, old, new) triple. Values stay typed inside
// the core; they are serialized to display strings only at the storage
// boundary so tests never have to string-match.
type FieldChange struct {
	Field string
	Old   any
	New   any
}

// Entry describes one committed configuration change. Write-once: the public
// interface exposes no way to modify or remove a recorded entry.
type Entry struct {
	EntityType     string
	EntityID       int64
	Action         string
	Changes        []FieldChange
	Description    string
	ChangedBy      string
	ChangedByEmail string
	Reason         string
	ChangedAt      time.Time
}

// Record is the read model: one row per changed field, as persisted.
type Record struct {
	ID             int64     `json:"id"`
	EntityType     string    `json:"entity_type"`
	EntityID       int64     `json:"entity_id"`
	Action         string    `json:"action"`
	FieldName      string    `json:"field_name,omitempty"`
	OldValue       string    `json:"old_value,omitempty"`
	NewValue       string    `json:"new_value,omitempty"`
	Description    string    `json:"change_description,omitempty"`
	ChangedBy      string    `json:"changed_by"`
	ChangedByEmail string    `json:"changed_by_email,omitempty"`
	Reason         string    `json:"change_reason,omitempty"`
	ChangedAt      time.Time `json:"changed_at"`
}

// DisplayValue renders a typed change value for the audit trail.
func DisplayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ToDataModels expands an entry into one row per field change. Entries with
// no field changes (creates, deletes) become a single row with empty field
// columns.
func ToDataModels(e Entry) []*auditDatamodel.AuditLogEntry {
	base := func() *auditDatamodel.AuditLogEntry {
		return &auditDatamodel.AuditLogEntry{
			EntityType:     e.EntityType,
			EntityID:       e.EntityID,
			Action:         e.Action,
			ChangeDesc:     e.Description,
			ChangedBy:      e.ChangedBy,
			ChangedByEmail: e.ChangedByEmail,
			ChangeReason:   e.Reason,
			ChangedAt:      e.ChangedAt,
		}
	}

	if len(e.Changes) == 0 {
		return []*auditDatamodel.AuditLogEntry{base()}
	}

	rows := make([]*auditDatamodel.AuditLogEntry, 0, len(e.Changes))
	for _, change := range e.Changes {
		row := base()
		row.FieldName = change.Field
		row.OldValue = DisplayValue(change.Old)
		row.NewValue = DisplayValue(change.New)
		rows = append(rows, row)
	}
	return rows
}

func RecordFromDataModel(row *auditDatamodel.AuditLogEntry) Record {
	return Record{
		ID:             row.ID,
		EntityType:     row.EntityType,
		EntityID:       row.EntityID,
		Action:         row.Action,
		FieldName:      row.FieldName,
		OldValue:       row.OldValue,
		NewValue:       row.NewValue,
		Description:    row.ChangeDesc,
		ChangedBy:      row.ChangedBy,
		ChangedByEmail: row.ChangedByEmail,
		Reason:         row.ChangeReason,
		ChangedAt:      row.ChangedAt,
	}
}
