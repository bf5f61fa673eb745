package postgres_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/vektora/capacity-admin/internal/audit"
	auditPostgres "github.com/vektora/capacity-admin/internal/audit/postgres"
	auditDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/audit"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuditPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Postgres Suite")
}

// SQLiteAuditLog is a SQLite-compatible model for testing
type SQLiteAuditLog struct {
	ID             int64     `gorm:"primaryKey"`
	EntityType     string    `gorm:"column:entity_type;not null"`
	EntityID       int64     `gorm:"column:entity_id"`
	Action         string    `gorm:"column:action;not null"`
	FieldName      string    `gorm:"column:field_name"`
	OldValue       string    `gorm:"column:old_value"`
	NewValue       string    `gorm:"column:new_value"`
	ChangeDesc     string    `gorm:"column:change_description"`
	ChangedBy      string    `gorm:"column:changed_by;not null"`
	ChangedByEmail string    `gorm:"column:changed_by_email"`
	ChangeReason   string    `gorm:"column:change_reason"`
	ChangedAt      time.Time `gorm:"column:changed_at;not null"`
}

func (SQLiteAuditLog) TableName() string {
	return "audit_log"
}

var _ = Describe("Audit PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo audit.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteAuditLog{})
		Expect(err).NotTo(HaveOccurred())

		repo = auditPostgres.NewAuditRepository(db)
	})

	Describe("Append", func() {
		It("should persist a batch of rows", func() {
			rows := []*auditDatamodel.AuditLogEntry{
				{
					EntityType: audit.EntityTypeWorkType,
					EntityID:   1,
					Action:     audit.ActionUpdate,
					FieldName:  "credits_per_hour",
					OldValue:   "2",
					NewValue:   "2.5",
					ChangedBy:  "admin@vektora.se",
					ChangedAt:  time.Now(),
				},
				{
					EntityType: audit.EntityTypeWorkType,
					EntityID:   1,
					Action:     audit.ActionUpdate,
					FieldName:  "billable",
					OldValue:   "true",
					NewValue:   "false",
					ChangedBy:  "admin@vektora.se",
					ChangedAt:  time.Now(),
				},
			}

			err := repo.Append(rows)
			Expect(err).NotTo(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteAuditLog{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("Query", func() {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		appendAt := func(entityType string, n int, at time.Time) {
			err := repo.Append([]*auditDatamodel.AuditLogEntry{{
				EntityType: entityType,
				EntityID:   1,
				Action:     audit.ActionUpdate,
				FieldName:  "credits_per_hour",
				OldValue:   fmt.Sprintf("%d", n),
				NewValue:   fmt.Sprintf("%d", n+1),
				ChangedBy:  "admin@vektora.se",
				ChangedAt:  at,
			}})
			Expect(err).NotTo(HaveOccurred())
		}

		It("should return the newest rows first, truncated to the limit", func() {
			for i := 0; i < 60; i++ {
				appendAt(audit.EntityTypeWorkType, i, base.Add(time.Duration(i)*time.Minute))
			}

			rows, err := repo.Query(audit.EntityTypeWorkType, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(50))

			// newest change first, the 10 oldest cut off
			Expect(rows[0].OldValue).To(Equal("59"))
			Expect(rows[49].OldValue).To(Equal("10"))
		})

		It("should order rows with identical timestamps by id, newest insert first", func() {
			at := base
			appendAt(audit.EntityTypeWorkType, 1, at)
			appendAt(audit.EntityTypeWorkType, 2, at)

			rows, err := repo.Query(audit.EntityTypeWorkType, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].OldValue).To(Equal("2"))
			Expect(rows[1].OldValue).To(Equal("1"))
		})

		It("should filter by entity type", func() {
			appendAt(audit.EntityTypeWorkType, 1, base)
			appendAt(audit.EntityTypeSystemSettings, 2, base.Add(time.Minute))

			rows, err := repo.Query(audit.EntityTypeSystemSettings, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].EntityType).To(Equal(audit.EntityTypeSystemSettings))
		})

		It("should return an empty slice when nothing matches", func() {
			rows, err := repo.Query(audit.EntityTypeWorkType, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})
})
