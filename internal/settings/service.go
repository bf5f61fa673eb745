package settings

import (
	"log/slog"
	"strings"
	"time"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/audit"
	settingsDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/settings"
)

// RepositoryAPI is the settings store: a single row fetched whole and
// patched by allow-listed fields.
type RepositoryAPI interface {
	Get() (*settingsDatamodel.SystemSettings, error)
	Patch(fields map[string]interface{}) error
}

// AuditRecorder is the append-only change trail collaborator.
type AuditRecorder interface {
	Record(entry audit.Entry) error
}

type Service struct {
	repo    RepositoryAPI
	auditor AuditRecorder
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, auditor AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		logger:  logger,
	}
}

// Load fetches the persisted settings and captures them as the baseline for
// dirty-checking.
func (s *Service) Load() (*Aggregate, error) {
	row, err := s.repo.Get()
	if err != nil {
		s.logger.Error("failed to load system settings", "error", err)
		return nil, internal.NewDataAccessError("failed to load system settings", err)
	}
	if row == nil {
		return nil, internal.ErrSettingsNotFound
	}
	return NewAggregate(FromDataModel(row)), nil
}

// SaveCompanyProfile persists the company sub-form fields from the working
// copy. Rule fields are never touched, even if the other sub-form is dirty.
// A validation failure leaves the working copy exactly as typed.
func (s *Service) SaveCompanyProfile(actor internal.Actor, agg *Aggregate) error {
	if !actor.CanManageConfig() {
		s.logger.Warn("save company profile denied", "actor", actor.Email, "role", actor.Role)
		return internal.ErrNotPermitted
	}
	if err := validateCompanyProfile(agg.Current); err != nil {
		s.logger.Warn("company profile validation failed", "error", err)
		return err
	}

	changes := diffCompanyProfile(agg.Baseline(), agg.Current)
	if len(changes) == 0 {
		return nil
	}

	now := time.Now()
	newVersion := agg.Baseline().SettingsVersion + 1
	fields := map[string]interface{}{
		"default_currency_code": agg.Current.DefaultCurrencyCode,
		"allowed_currencies":    strings.Join(agg.Current.AllowedCurrencies, ","),
		"time_zone":             agg.Current.TimeZone,
		"date_format":           agg.Current.DateFormat,
		"company_name":          agg.Current.CompanyName,
		"company_org_number":    agg.Current.CompanyOrgNumber,
		"company_email":         agg.Current.CompanyEmail,
		"company_phone":         agg.Current.CompanyPhone,
		"settings_version":      newVersion,
		"updated_at":            now,
	}

	if err := s.persist(actor, agg, fields, changes, newVersion, now, s.savedCompanyProfile); err != nil {
		return err
	}

	s.logger.Info("company profile saved",
		"fields_changed", len(changes),
		"settings_version", newVersion,
		"actor", actor.Email)
	return nil
}

// SaveTimeEntryRules persists the rules sub-form fields from the working
// copy; company fields stay untouched.
func (s *Service) SaveTimeEntryRules(actor internal.Actor, agg *Aggregate) error {
	if !actor.CanManageConfig() {
		s.logger.Warn("save time entry rules denied", "actor", actor.Email, "role", actor.Role)
		return internal.ErrNotPermitted
	}
	if err := validateTimeEntryRules(agg.Current); err != nil {
		s.logger.Warn("time entry rules validation failed", "error", err)
		return err
	}

	changes := diffTimeEntryRules(agg.Baseline(), agg.Current)
	if len(changes) == 0 {
		return nil
	}

	now := time.Now()
	newVersion := agg.Baseline().SettingsVersion + 1
	fields := map[string]interface{}{
		"time_entry_edit_window_days":         agg.Current.TimeEntryEditWindowDays,
		"time_entry_require_project":          agg.Current.TimeEntryRequireProject,
		"time_entry_enable_billable_tracking": agg.Current.TimeEntryEnableBillableTrack,
		"time_entry_max_hours_per_day":        agg.Current.TimeEntryMaxHoursPerDay,
		"time_entry_allow_future_dates":       agg.Current.TimeEntryAllowFutureDates,
		"settings_version":                    newVersion,
		"updated_at":                          now,
	}

	if err := s.persist(actor, agg, fields, changes, newVersion, now, s.savedTimeEntryRules); err != nil {
		return err
	}

	s.logger.Info("time entry rules saved",
		"fields_changed", len(changes),
		"settings_version", newVersion,
		"actor", actor.Email)
	return nil
}

// persist writes the allow-listed fields, records one audit field-change per
// modified field, and refreshes the baseline. The refreshed snapshot is
// rebuilt from the baseline plus the saved section only, so unsaved edits in
// the other sub-form would be rolled back deliberately by the caller's next
// load rather than silently persisted.
func (s *Service) persist(actor internal.Actor, agg *Aggregate, fields map[string]interface{}, changes []audit.FieldChange, newVersion int64, now time.Time, compose func(*Aggregate, int64, time.Time) SystemSettings) error {
	if err := s.repo.Patch(fields); err != nil {
		s.logger.Error("failed to persist settings", "error", err)
		return internal.NewDataAccessError("failed to save settings", err)
	}

	if err := s.auditor.Record(audit.Entry{
		EntityType:     audit.EntityTypeSystemSettings,
		EntityID:       1,
		Action:         audit.ActionUpdate,
		Changes:        changes,
		ChangedBy:      actor.Email,
		ChangedByEmail: actor.Email,
	}); err != nil {
		return err
	}

	agg.refresh(compose(agg, newVersion, now))
	return nil
}

func (s *Service) savedCompanyProfile(agg *Aggregate, version int64, now time.Time) SystemSettings {
	saved := agg.Baseline()
	saved.DefaultCurrencyCode = agg.Current.DefaultCurrencyCode
	saved.AllowedCurrencies = append([]string(nil), agg.Current.AllowedCurrencies...)
	saved.TimeZone = agg.Current.TimeZone
	saved.DateFormat = agg.Current.DateFormat
	saved.CompanyName = agg.Current.CompanyName
	saved.CompanyOrgNumber = agg.Current.CompanyOrgNumber
	saved.CompanyEmail = agg.Current.CompanyEmail
	saved.CompanyPhone = agg.Current.CompanyPhone
	saved.SettingsVersion = version
	saved.UpdatedAt = now
	return saved
}

func (s *Service) savedTimeEntryRules(agg *Aggregate, version int64, now time.Time) SystemSettings {
	saved := agg.Baseline()
	saved.TimeEntryEditWindowDays = agg.Current.TimeEntryEditWindowDays
	saved.TimeEntryRequireProject = agg.Current.TimeEntryRequireProject
	saved.TimeEntryEnableBillableTrack = agg.Current.TimeEntryEnableBillableTrack
	saved.TimeEntryMaxHoursPerDay = agg.Current.TimeEntryMaxHoursPerDay
	saved.TimeEntryAllowFutureDates = agg.Current.TimeEntryAllowFutureDates
	saved.SettingsVersion = version
	saved.UpdatedAt = now
	return saved
}
