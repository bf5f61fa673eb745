package settings

import "time"

// SystemSettings is a singleton row; ID is always 1.
type SystemSettings struct {
	ID                             int64     `gorm:"primaryKey"`
	DefaultCurrencyCode            string    `gorm:"column:default_currency_code;not null"`
	AllowedCurrencies              string    `gorm:"column:allowed_currencies;not null"`
	TimeZone                       string    `gorm:"column:time_zone;not null"`
	DateFormat                     string    `gorm:"column:date_format;not null"`
	CompanyName                    string    `gorm:"column:company_name"`
	CompanyOrgNumber               string    `gorm:"column:company_org_number"`
	CompanyEmail                   string    `gorm:"column:company_email"`
	CompanyPhone                   string    `gorm:"column:company_phone"`
	TimeEntryEditWindowDays        int       `gorm:"column:time_entry_edit_window_days;not null;default:30"`
	TimeEntryRequireProject        bool      `gorm:"column:time_entry_require_project;default:false"`
	TimeEntryEnableBillableTrack   bool      `gorm:"column:time_entry_enable_billable_tracking;default:true"`
	TimeEntryMaxHoursPerDay        float64   `gorm:"column:time_entry_max_hours_per_day;not null;default:12"`
	TimeEntryAllowFutureDates      bool      `gorm:"column:time_entry_allow_future_dates;default:false"`
	SettingsVersion                int64     `gorm:"column:settings_version;not null;default:1"`
	UpdatedAt                      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}
