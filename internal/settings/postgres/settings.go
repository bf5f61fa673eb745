package postgres

import (
	settingsDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/settings"
	"github.com/vektora/capacity-admin/internal/settings"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.RepositoryAPI {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get() (*settingsDatamodel.SystemSettings, error) {
	var row settingsDatamodel.SystemSettings
	err := r.db.Where("id = ?", 1).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SettingsRepository) Patch(fields map[string]interface{}) error {
	return r.db.Model(&settingsDatamodel.SystemSettings{}).
		Where("id = ?", 1).
		Updates(fields).Error
}
