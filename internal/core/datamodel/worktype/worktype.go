package worktype

import "time"

type WorkType struct {
	ID                 int64     `gorm:"primaryKey"`
	Name               string    `gorm:"column:name;uniqueIndex;not null"`
	Description        string    `gorm:"column:description"`
	CreditsPerHour     float64   `gorm:"column:credits_per_hour;not null"`
	InternalCostFactor float64   `gorm:"column:internal_cost_factor;not null;default:1.0"`
	AllowedPlanLevels  string    `gorm:"column:allowed_plan_levels;not null"`
	Category           string    `gorm:"column:category;not null"`
	Billable           bool      `gorm:"column:billable;default:true"`
	IsActive           bool      `gorm:"column:is_active;default:true"`
	Version            int64     `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkType) TableName() string {
	return "work_types"
}
