package postgres

import (
	"time"

	timeentryDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/timeentry"
	"github.com/vektora/capacity-admin/internal/usage"
	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) usage.TimeEntryStore {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) CountByWorkType(workTypeID int64) (int64, *time.Time, error) {
	var count int64
	err := r.db.Model(&timeentryDatamodel.TimeEntry{}).
		Where("work_type_id = ?", workTypeID).
		Count(&count).Error
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var last timeentryDatamodel.TimeEntry
	err = r.db.Where("work_type_id = ?", workTypeID).
		Order("entry_date DESC").
		First(&last).Error
	if err != nil {
		return 0, nil, err
	}

	lastDate := last.EntryDate
	return count, &lastDate, nil
}
