package postgres_test

import (
	"testing"
	"time"

	worktypeDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/worktype"
	"github.com/vektora/capacity-admin/internal/worktype"
	worktypePostgres "github.com/vektora/capacity-admin/internal/worktype/postgres"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWorkTypePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Work Type Postgres Suite")
}

// SQLiteWorkType is a SQLite-compatible model for testing
type SQLiteWorkType struct {
	ID                 int64     `gorm:"primaryKey"`
	Name               string    `gorm:"column:name;uniqueIndex;not null"`
	Description        string    `gorm:"column:description"`
	CreditsPerHour     float64   `gorm:"column:credits_per_hour;not null"`
	InternalCostFactor float64   `gorm:"column:internal_cost_factor;default:1"`
	AllowedPlanLevels  string    `gorm:"column:allowed_plan_levels;not null"`
	Category           string    `gorm:"column:category;not null"`
	Billable           bool      `gorm:"column:billable;default:true"`
	IsActive           bool      `gorm:"column:is_active;default:true"`
	Version            int64     `gorm:"column:version;default:1"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkType) TableName() string {
	return "work_types"
}

var _ = Describe("Work Type PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo worktype.RepositoryAPI
	)

	newRow := func(name string, active bool) *worktypeDatamodel.WorkType {
		return &worktypeDatamodel.WorkType{
			Name:               name,
			Description:        "test work type",
			CreditsPerHour:     1.5,
			InternalCostFactor: 1.0,
			AllowedPlanLevels:  "starter,growth",
			Category:           "operational",
			Billable:           true,
			IsActive:           active,
			Version:            1,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteWorkType{})
		Expect(err).NotTo(HaveOccurred())

		repo = worktypePostgres.NewWorkTypeRepository(db)
	})

	Describe("Create", func() {
		It("should create a work type and assign an id", func() {
			row := newRow("Strategic Planning", true)
			err := repo.Create(row)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ID).To(BeNumerically(">", 0))
		})

		It("should enforce the unique name constraint", func() {
			Expect(repo.Create(newRow("Strategic Planning", true))).To(Succeed())
			err := repo.Create(newRow("Strategic Planning", true))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			Expect(repo.Create(newRow("Strategic Planning", true))).To(Succeed())
			Expect(repo.Create(newRow("Administration", true))).To(Succeed())
			Expect(repo.Create(newRow("Legacy Audit", false))).To(Succeed())
		})

		It("should return active rows ordered by name when includeInactive is false", func() {
			rows, err := repo.GetAll(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Administration"))
			Expect(rows[1].Name).To(Equal("Strategic Planning"))
		})

		It("should include inactive rows when requested", func() {
			rows, err := repo.GetAll(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})
	})

	Describe("GetByID", func() {
		It("should return the row", func() {
			row := newRow("Strategic Planning", true)
			Expect(repo.Create(row)).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Name).To(Equal("Strategic Planning"))
			Expect(found.AllowedPlanLevels).To(Equal("starter,growth"))
		})

		It("should return nil for an unknown id", func() {
			found, err := repo.GetByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("GetByName", func() {
		It("should return nil for an unknown name", func() {
			found, err := repo.GetByName("nonexistent")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("UpdateVersioned", func() {
		var row *worktypeDatamodel.WorkType

		BeforeEach(func() {
			row = newRow("Strategic Planning", true)
			Expect(repo.Create(row)).To(Succeed())
		})

		It("should write when the stored version matches", func() {
			row.CreditsPerHour = 2.5
			row.Version = 2
			row.UpdatedAt = time.Now()

			ok, err := repo.UpdateVersioned(row, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.CreditsPerHour).To(Equal(2.5))
			Expect(found.Version).To(Equal(int64(2)))
		})

		It("should refuse when a concurrent editor already bumped the version", func() {
			row.CreditsPerHour = 2.5
			row.Version = 2
			ok, err := repo.UpdateVersioned(row, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			// second editor still holds version 1
			stale := *row
			stale.CreditsPerHour = 3.0
			stale.Version = 2
			ok, err = repo.UpdateVersioned(&stale, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.CreditsPerHour).To(Equal(2.5))
		})
	})

	Describe("Delete", func() {
		It("should hard-delete the row", func() {
			row := newRow("Never Used", true)
			Expect(repo.Create(row)).To(Succeed())

			Expect(repo.Delete(row.ID)).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})
})
