package settings

import (
	"reflect"
	"strings"
	"time"

	"github.com/vektora/capacity-admin/internal/audit"
	settingsDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/settings"
)

// SystemSettings is the single global configuration aggregate. Two logically
// disjoint sub-forms edit it: company profile (currency, timezone, identity)
// and time-entry rules. Each saves only its own allow-listed fields.
type SystemSettings struct {
	DefaultCurrencyCode string   `json:"default_currency_code"`
	AllowedCurrencies   []string `json:"allowed_currencies"`
	TimeZone            string   `json:"time_zone"`
	DateFormat          string   `json:"date_format"`
	CompanyName         string   `json:"company_name"`
	CompanyOrgNumber    string   `json:"company_org_number"`
	CompanyEmail        string   `json:"company_email"`
	CompanyPhone        string   `json:"company_phone"`

	TimeEntryEditWindowDays        int     `json:"time_entry_edit_window_days"`
	TimeEntryRequireProject        bool    `json:"time_entry_require_project"`
	TimeEntryEnableBillableTrack   bool    `json:"time_entry_enable_billable_tracking"`
	TimeEntryMaxHoursPerDay        float64 `json:"time_entry_max_hours_per_day"`
	TimeEntryAllowFutureDates      bool    `json:"time_entry_allow_future_dates"`

	SettingsVersion int64     `json:"settings_version"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Clone returns a deep copy usable as a baseline snapshot.
func (s SystemSettings) Clone() SystemSettings {
	out := s
	out.AllowedCurrencies = append([]string(nil), s.AllowedCurrencies...)
	return out
}

// Aggregate pairs the live working copy with the baseline captured at load
// time. Dirty is a pure structural comparison between the two; no ambient
// globals involved.
type Aggregate struct {
	Current  SystemSettings
	original SystemSettings
}

func NewAggregate(loaded SystemSettings) *Aggregate {
	return &Aggregate{
		Current:  loaded.Clone(),
		original: loaded.Clone(),
	}
}

// Baseline returns the last-persisted snapshot.
func (a *Aggregate) Baseline() SystemSettings {
	return a.original.Clone()
}

// IsDirty reports whether any field of the working copy differs from the
// baseline. Version and timestamp are part of the comparison only after a
// save refreshes both sides, so they never make a freshly loaded aggregate
// dirty.
func (a *Aggregate) IsDirty() bool {
	return !reflect.DeepEqual(a.Current, a.original)
}

// CompanyProfileDirty scopes the dirty check to the company sub-form.
func (a *Aggregate) CompanyProfileDirty() bool {
	return a.Current.DefaultCurrencyCode != a.original.DefaultCurrencyCode ||
		!reflect.DeepEqual(a.Current.AllowedCurrencies, a.original.AllowedCurrencies) ||
		a.Current.TimeZone != a.original.TimeZone ||
		a.Current.DateFormat != a.original.DateFormat ||
		a.Current.CompanyName != a.original.CompanyName ||
		a.Current.CompanyOrgNumber != a.original.CompanyOrgNumber ||
		a.Current.CompanyEmail != a.original.CompanyEmail ||
		a.Current.CompanyPhone != a.original.CompanyPhone
}

// TimeEntryRulesDirty scopes the dirty check to the rules sub-form.
func (a *Aggregate) TimeEntryRulesDirty() bool {
	return a.Current.TimeEntryEditWindowDays != a.original.TimeEntryEditWindowDays ||
		a.Current.TimeEntryRequireProject != a.original.TimeEntryRequireProject ||
		a.Current.TimeEntryEnableBillableTrack != a.original.TimeEntryEnableBillableTrack ||
		a.Current.TimeEntryMaxHoursPerDay != a.original.TimeEntryMaxHoursPerDay ||
		a.Current.TimeEntryAllowFutureDates != a.original.TimeEntryAllowFutureDates
}

// Reset discards the working copy by overwriting it with the baseline. No
// persistence call, no audit entry.
func (a *Aggregate) Reset() {
	a.Current = a.original.Clone()
}

// refresh clones the freshly persisted state into both sides after a save.
func (a *Aggregate) refresh(saved SystemSettings) {
	a.Current = saved.Clone()
	a.original = saved.Clone()
}

func ToDataModel(s SystemSettings) *settingsDatamodel.SystemSettings {
	return &settingsDatamodel.SystemSettings{
		ID:                           1,
		DefaultCurrencyCode:          s.DefaultCurrencyCode,
		AllowedCurrencies:            strings.Join(s.AllowedCurrencies, ","),
		TimeZone:                     s.TimeZone,
		DateFormat:                   s.DateFormat,
		CompanyName:                  s.CompanyName,
		CompanyOrgNumber:             s.CompanyOrgNumber,
		CompanyEmail:                 s.CompanyEmail,
		CompanyPhone:                 s.CompanyPhone,
		TimeEntryEditWindowDays:      s.TimeEntryEditWindowDays,
		TimeEntryRequireProject:      s.TimeEntryRequireProject,
		TimeEntryEnableBillableTrack: s.TimeEntryEnableBillableTrack,
		TimeEntryMaxHoursPerDay:      s.TimeEntryMaxHoursPerDay,
		TimeEntryAllowFutureDates:    s.TimeEntryAllowFutureDates,
		SettingsVersion:              s.SettingsVersion,
		UpdatedAt:                    s.UpdatedAt,
	}
}

func FromDataModel(row *settingsDatamodel.SystemSettings) SystemSettings {
	var currencies []string
	if row.AllowedCurrencies != "" {
		currencies = strings.Split(row.AllowedCurrencies, ",")
	}
	return SystemSettings{
		DefaultCurrencyCode:          row.DefaultCurrencyCode,
		AllowedCurrencies:            currencies,
		TimeZone:                     row.TimeZone,
		DateFormat:                   row.DateFormat,
		CompanyName:                  row.CompanyName,
		CompanyOrgNumber:             row.CompanyOrgNumber,
		CompanyEmail:                 row.CompanyEmail,
		CompanyPhone:                 row.CompanyPhone,
		TimeEntryEditWindowDays:      row.TimeEntryEditWindowDays,
		TimeEntryRequireProject:      row.TimeEntryRequireProject,
		TimeEntryEnableBillableTrack: row.TimeEntryEnableBillableTrack,
		TimeEntryMaxHoursPerDay:      row.TimeEntryMaxHoursPerDay,
		TimeEntryAllowFutureDates:    row.TimeEntryAllowFutureDates,
		SettingsVersion:              row.SettingsVersion,
		UpdatedAt:                    row.UpdatedAt,
	}
}

// diffCompanyProfile returns the typed field changes between two snapshots,
// company sub-form fields only.
func diffCompanyProfile(old, new SystemSettings) []audit.FieldChange {
	var changes []audit.FieldChange
	if old.DefaultCurrencyCode != new.DefaultCurrencyCode {
		changes = append(changes, audit.FieldChange{Field: "default_currency_code", Old: old.DefaultCurrencyCode, New: new.DefaultCurrencyCode})
	}
	if !reflect.DeepEqual(old.AllowedCurrencies, new.AllowedCurrencies) {
		changes = append(changes, audit.FieldChange{Field: "allowed_currencies", Old: strings.Join(old.AllowedCurrencies, ","), New: strings.Join(new.AllowedCurrencies, ",")})
	}
	if old.TimeZone != new.TimeZone {
		changes = append(changes, audit.FieldChange{Field: "time_zone", Old: old.TimeZone, New: new.TimeZone})
	}
	if old.DateFormat != new.DateFormat {
		changes = append(changes, audit.FieldChange{Field: "date_format", Old: old.DateFormat, New: new.DateFormat})
	}
	if old.CompanyName != new.CompanyName {
		changes = append(changes, audit.FieldChange{Field: "company_name", Old: old.CompanyName, New: new.CompanyName})
	}
	if old.CompanyOrgNumber != new.CompanyOrgNumber {
		changes = append(changes, audit.FieldChange{Field: "company_org_number", Old: old.CompanyOrgNumber, New: new.CompanyOrgNumber})
	}
	if old.CompanyEmail != new.CompanyEmail {
		changes = append(changes, audit.FieldChange{Field: "company_email", Old: old.CompanyEmail, New: new.CompanyEmail})
	}
	if old.CompanyPhone != new.CompanyPhone {
		changes = append(changes, audit.FieldChange{Field: "company_phone", Old: old.CompanyPhone, New: new.CompanyPhone})
	}
	return changes
}

// diffTimeEntryRules returns the typed field changes, rules sub-form only.
func diffTimeEntryRules(old, new SystemSettings) []audit.FieldChange {
	var changes []audit.FieldChange
	if old.TimeEntryEditWindowDays != new.TimeEntryEditWindowDays {
		changes = append(changes, audit.FieldChange{Field: "time_entry_edit_window_days", Old: old.TimeEntryEditWindowDays, New: new.TimeEntryEditWindowDays})
	}
	if old.TimeEntryRequireProject != new.TimeEntryRequireProject {
		changes = append(changes, audit.FieldChange{Field: "time_entry_require_project", Old: old.TimeEntryRequireProject, New: new.TimeEntryRequireProject})
	}
	if old.TimeEntryEnableBillableTrack != new.TimeEntryEnableBillableTrack {
		changes = append(changes, audit.FieldChange{Field: "time_entry_enable_billable_tracking", Old: old.TimeEntryEnableBillableTrack, New: new.TimeEntryEnableBillableTrack})
	}
	if old.TimeEntryMaxHoursPerDay != new.TimeEntryMaxHoursPerDay {
		changes = append(changes, audit.FieldChange{Field: "time_entry_max_hours_per_day", Old: old.TimeEntryMaxHoursPerDay, New: new.TimeEntryMaxHoursPerDay})
	}
	if old.TimeEntryAllowFutureDates != new.TimeEntryAllowFutureDates {
		changes = append(changes, audit.FieldChange{Field: "time_entry_allow_future_dates", Old: old.TimeEntryAllowFutureDates, New: new.TimeEntryAllowFutureDates})
	}
	return changes
}
