package timeentry

import "time"

// TimeEntry rows are written by the time-tracking workflows, not by this
// service. The configuration core only reads them to answer usage questions.
type TimeEntry struct {
	ID         int64     `gorm:"primaryKey"`
	WorkTypeID int64     `gorm:"column:work_type_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Hours      float64   `gorm:"column:hours;not null"`
	EntryDate  time.Time `gorm:"column:entry_date;type:date;not null"`
	Billable   bool      `gorm:"column:billable;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
