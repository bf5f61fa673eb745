package usage

import (
	"log/slog"
	"time"

	"github.com/vektora/capacity-admin/internal"
)

// TimeEntryStore is the external collaborator holding historical time
// entries. This core only ever counts them.
type TimeEntryStore interface {
	CountByWorkType(workTypeID int64) (count int64, lastDate *time.Time, err error)
}

type Service struct {
	store  TimeEntryStore
	logger *slog.Logger
}

func NewService(store TimeEntryStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// CheckUsage scans the time-entry store fresh on every call. Pure read; the
// only failure mode is the underlying store being unavailable.
func (s *Service) CheckUsage(workTypeID int64) (Info, error) {
	count, lastDate, err := s.store.CountByWorkType(workTypeID)
	if err != nil {
		s.logger.Error("failed to count time entries", "error", err, "work_type_id", workTypeID)
		return Info{}, internal.NewDataAccessError("failed to check work type usage", err)
	}

	return Info{
		WorkTypeID:   workTypeID,
		IsUsed:       count > 0,
		UsageCount:   count,
		LastUsedDate: lastDate,
	}, nil
}
