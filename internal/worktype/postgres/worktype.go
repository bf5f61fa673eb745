package postgres

import (
	worktypeDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/worktype"
	"github.com/vektora/capacity-admin/internal/worktype"
	"gorm.io/gorm"
)

type WorkTypeRepository struct {
	db *gorm.DB
}

func NewWorkTypeRepository(db *gorm.DB) worktype.RepositoryAPI {
	return &WorkTypeRepository{db: db}
}

func (r *WorkTypeRepository) GetAll(includeInactive bool) ([]*worktypeDatamodel.WorkType, error) {
	var rows []*worktypeDatamodel.WorkType
	query := r.db.Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&rows).Error
	return rows, err
}

func (r *WorkTypeRepository) GetByID(id int64) (*worktypeDatamodel.WorkType, error) {
	var row worktypeDatamodel.WorkType
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkTypeRepository) GetByName(name string) (*worktypeDatamodel.WorkType, error) {
	var row worktypeDatamodel.WorkType
	err := r.db.Where("name = ?", name).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkTypeRepository) Create(row *worktypeDatamodel.WorkType) error {
	return r.db.Create(row).Error
}

// UpdateVersioned writes the row only when nobody else bumped the version in
// the meantime. rows affected = 0 means a concurrent editor won.
func (r *WorkTypeRepository) UpdateVersioned(row *worktypeDatamodel.WorkType, expectedVersion int64) (bool, error) {
	result := r.db.Model(&worktypeDatamodel.WorkType{}).
		Where("id = ? AND version = ?", row.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":                 row.Name,
			"description":          row.Description,
			"credits_per_hour":     row.CreditsPerHour,
			"internal_cost_factor": row.InternalCostFactor,
			"allowed_plan_levels":  row.AllowedPlanLevels,
			"category":             row.Category,
			"billable":             row.Billable,
			"is_active":            row.IsActive,
			"version":              row.Version,
			"updated_at":           row.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *WorkTypeRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&worktypeDatamodel.WorkType{}).Error
}
