package audit

import (
	"log/slog"
	"time"

	"github.com/vektora/capacity-admin/internal"
	auditDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/audit"
)

// DefaultHistoryLimit bounds history queries when the caller passes no limit.
const DefaultHistoryLimit = 50

// RepositoryAPI is append-and-query only. There is deliberately no update or
// delete: the trail's value is non-repudiation of configuration history.
type RepositoryAPI interface {
	Append(rows []*auditDatamodel.AuditLogEntry) error
	Query(entityType string, limit int) ([]*auditDatamodel.AuditLogEntry, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record persists one entry, expanded to one row per changed field.
func (s *Service) Record(entry Entry) error {
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now()
	}

	rows := ToDataModels(entry)
	if err := s.repo.Append(rows); err != nil {
		s.logger.Error("failed to append audit entry",
			"error", err,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"action", entry.Action)
		return internal.NewDataAccessError("failed to record audit entry", err)
	}

	s.logger.Info("audit entry recorded",
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"action", entry.Action,
		"fields", len(entry.Changes),
		"changed_by", entry.ChangedBy)
	return nil
}

// History returns entries for an entity type, newest first, truncated to
// limit. Zero results is not an error.
func (s *Service) History(entityType string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.repo.Query(entityType, limit)
	if err != nil {
		s.logger.Error("failed to query audit history", "error", err, "entity_type", entityType)
		return nil, internal.NewDataAccessError("failed to query audit history", err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = RecordFromDataModel(row)
	}
	return records, nil
}
