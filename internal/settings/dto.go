package settings

import (
	"strings"

	"github.com/vektora/capacity-admin/internal"
)

// CompanyProfileDTO is the payload of the "Currency & Company" sub-form.
type CompanyProfileDTO struct {
	DefaultCurrencyCode string   `json:"default_currency_code" validate:"required"`
	AllowedCurrencies   []string `json:"allowed_currencies" validate:"required,min=1"`
	TimeZone            string   `json:"time_zone" validate:"required"`
	DateFormat          string   `json:"date_format" validate:"required"`
	CompanyName         string   `json:"company_name"`
	CompanyOrgNumber    string   `json:"company_org_number"`
	CompanyEmail        string   `json:"company_email"`
	CompanyPhone        string   `json:"company_phone"`
}

// TimeEntryRulesDTO is the payload of the "Time Entry Rules" sub-form.
type TimeEntryRulesDTO struct {
	EditWindowDays         int     `json:"time_entry_edit_window_days"`
	RequireProject         bool    `json:"time_entry_require_project"`
	EnableBillableTracking bool    `json:"time_entry_enable_billable_tracking"`
	MaxHoursPerDay         float64 `json:"time_entry_max_hours_per_day"`
	AllowFutureDates       bool    `json:"time_entry_allow_future_dates"`
}

// ApplyCompanyProfile copies the sub-form into the working copy. Validation
// happens at save time so a rejected save leaves the typed values visible.
func (a *Aggregate) ApplyCompanyProfile(dto CompanyProfileDTO) {
	a.Current.DefaultCurrencyCode = dto.DefaultCurrencyCode
	a.Current.AllowedCurrencies = append([]string(nil), dto.AllowedCurrencies...)
	a.Current.TimeZone = dto.TimeZone
	a.Current.DateFormat = dto.DateFormat
	a.Current.CompanyName = dto.CompanyName
	a.Current.CompanyOrgNumber = dto.CompanyOrgNumber
	a.Current.CompanyEmail = dto.CompanyEmail
	a.Current.CompanyPhone = dto.CompanyPhone
}

// ApplyTimeEntryRules copies the sub-form into the working copy.
func (a *Aggregate) ApplyTimeEntryRules(dto TimeEntryRulesDTO) {
	a.Current.TimeEntryEditWindowDays = dto.EditWindowDays
	a.Current.TimeEntryRequireProject = dto.RequireProject
	a.Current.TimeEntryEnableBillableTrack = dto.EnableBillableTracking
	a.Current.TimeEntryMaxHoursPerDay = dto.MaxHoursPerDay
	a.Current.TimeEntryAllowFutureDates = dto.AllowFutureDates
}

func validateCompanyProfile(s SystemSettings) error {
	if s.DefaultCurrencyCode == "" {
		return internal.NewValidationFieldError("default_currency_code", "default currency is required", internal.ErrCodeInvalidSettings)
	}
	if len(s.AllowedCurrencies) == 0 {
		return internal.NewValidationFieldError("allowed_currencies", "at least one currency is required", internal.ErrCodeInvalidSettings)
	}
	found := false
	for _, c := range s.AllowedCurrencies {
		if c == s.DefaultCurrencyCode {
			found = true
			break
		}
	}
	if !found {
		return internal.NewValidationFieldError("default_currency_code", "default currency must be one of the allowed currencies", internal.ErrCodeInvalidSettings)
	}
	if s.TimeZone == "" {
		return internal.NewValidationFieldError("time_zone", "time zone is required", internal.ErrCodeInvalidSettings)
	}
	if s.CompanyEmail != "" && !strings.Contains(s.CompanyEmail, "@") {
		return internal.NewValidationFieldError("company_email", "company email is not a valid address", internal.ErrCodeInvalidSettings)
	}
	return nil
}

func validateTimeEntryRules(s SystemSettings) error {
	if s.TimeEntryEditWindowDays < 0 {
		return internal.NewValidationFieldError("time_entry_edit_window_days", "edit window cannot be negative", internal.ErrCodeInvalidSettings)
	}
	if s.TimeEntryMaxHoursPerDay < 0 || s.TimeEntryMaxHoursPerDay > 24 {
		return internal.NewValidationFieldError("time_entry_max_hours_per_day", "max hours per day must be between 0 and 24", internal.ErrCodeInvalidSettings)
	}
	return nil
}

type SettingsResponse struct {
	Settings            SystemSettings `json:"settings"`
	CompanyProfileDirty bool           `json:"company_profile_dirty"`
	TimeEntryRulesDirty bool           `json:"time_entry_rules_dirty"`
}
