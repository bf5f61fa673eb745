package audit

import "time"

// AuditLogEntry is write-once. No update or delete path exists anywhere in
// the codebase for this table.
type AuditLogEntry struct {
	ID             int64     `gorm:"primaryKey"`
	EntityType     string    `gorm:"column:entity_type;not null;index:idx_audit_entity"`
	EntityID       int64     `gorm:"column:entity_id;index:idx_audit_entity"`
	Action         string    `gorm:"column:action;not null"`
	FieldName      string    `gorm:"column:field_name"`
	OldValue       string    `gorm:"column:old_value"`
	NewValue       string    `gorm:"column:new_value"`
	ChangeDesc     string    `gorm:"column:change_description"`
	ChangedBy      string    `gorm:"column:changed_by;not null"`
	ChangedByEmail string    `gorm:"column:changed_by_email"`
	ChangeReason   string    `gorm:"column:change_reason"`
	ChangedAt      time.Time `gorm:"column:changed_at;not null;index"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}
