package postgres

import (
	"github.com/vektora/capacity-admin/internal/audit"
	auditDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(rows []*auditDatamodel.AuditLogEntry) error {
	return r.db.Create(rows).Error
}

func (r *AuditRepository) Query(entityType string, limit int) ([]*auditDatamodel.AuditLogEntry, error) {
	var rows []*auditDatamodel.AuditLogEntry
	err := r.db.Where("entity_type = ?", entityType).
		Order("changed_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
