package audit_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/audit"
	auditDatamodel "github.com/vektora/capacity-admin/internal/core/datamodel/audit"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Service Suite")
}

// MockRepository implements audit.RepositoryAPI for testing. It mirrors the
// real repository's append-and-query contract.
type MockRepository struct {
	rows       []*auditDatamodel.AuditLogEntry
	lastLimit  int
	shouldFail bool
	failError  error
}

func (m *MockRepository) Append(rows []*auditDatamodel.AuditLogEntry) error {
	if m.shouldFail {
		return m.failError
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *MockRepository) Query(entityType string, limit int) ([]*auditDatamodel.AuditLogEntry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.lastLimit = limit
	var result []*auditDatamodel.AuditLogEntry
	for i := len(m.rows) - 1; i >= 0 && len(result) < limit; i-- {
		if m.rows[i].EntityType == entityType {
			result = append(result, m.rows[i])
		}
	}
	return result, nil
}

var _ = Describe("Audit Service", func() {
	var (
		mockRepo *MockRepository
		service  *audit.Service
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(mockRepo, logger)
	})

	Describe("Record", func() {
		It("should persist a create entry as a single row", func() {
			err := service.Record(audit.Entry{
				EntityType:  audit.EntityTypeWorkType,
				EntityID:    1,
				Action:      audit.ActionCreate,
				Description: "created work type Strategic Planning",
				ChangedBy:   "admin@vektora.se",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.rows).To(HaveLen(1))
			Expect(mockRepo.rows[0].Action).To(Equal(audit.ActionCreate))
			Expect(mockRepo.rows[0].FieldName).To(BeEmpty())
		})

		It("should expand a multi-field update into one row per field", func() {
			err := service.Record(audit.Entry{
				EntityType: audit.EntityTypeWorkType,
				EntityID:   1,
				Action:     audit.ActionUpdate,
				Changes: []audit.FieldChange{
					{Field: "credits_per_hour", Old: 2.0, New: 2.5},
					{Field: "billable", Old: true, New: false},
				},
				ChangedBy: "admin@vektora.se",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.rows).To(HaveLen(2))

			Expect(mockRepo.rows[0].FieldName).To(Equal("credits_per_hour"))
			Expect(mockRepo.rows[0].OldValue).To(Equal("2"))
			Expect(mockRepo.rows[0].NewValue).To(Equal("2.5"))

			Expect(mockRepo.rows[1].FieldName).To(Equal("billable"))
			Expect(mockRepo.rows[1].OldValue).To(Equal("true"))
			Expect(mockRepo.rows[1].NewValue).To(Equal("false"))
		})

		It("should stamp every row of one entry with the same actor and action", func() {
			err := service.Record(audit.Entry{
				EntityType: audit.EntityTypeSystemSettings,
				EntityID:   1,
				Action:     audit.ActionUpdate,
				Changes: []audit.FieldChange{
					{Field: "default_currency_code", Old: "SEK", New: "EUR"},
					{Field: "time_zone", Old: "Europe/Stockholm", New: "Europe/Berlin"},
				},
				ChangedBy: "admin@vektora.se",
			})
			Expect(err).NotTo(HaveOccurred())
			for _, row := range mockRepo.rows {
				Expect(row.ChangedBy).To(Equal("admin@vektora.se"))
				Expect(row.Action).To(Equal(audit.ActionUpdate))
				Expect(row.EntityType).To(Equal(audit.EntityTypeSystemSettings))
			}
		})

		It("should default the timestamp when none is supplied", func() {
			before := time.Now()
			err := service.Record(audit.Entry{
				EntityType: audit.EntityTypeWorkType,
				EntityID:   1,
				Action:     audit.ActionCreate,
				ChangedBy:  "admin@vektora.se",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.rows[0].ChangedAt).To(BeTemporally(">=", before))
		})

		It("should keep a supplied timestamp", func() {
			at := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
			err := service.Record(audit.Entry{
				EntityType: audit.EntityTypeWorkType,
				EntityID:   1,
				Action:     audit.ActionCreate,
				ChangedBy:  "admin@vektora.se",
				ChangedAt:  at,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.rows[0].ChangedAt).To(Equal(at))
		})

		It("should surface a store failure as a data access error", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("disk full")

			err := service.Record(audit.Entry{
				EntityType: audit.EntityTypeWorkType,
				Action:     audit.ActionCreate,
				ChangedBy:  "admin@vektora.se",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeDataAccess))
		})
	})

	Describe("History", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				err := service.Record(audit.Entry{
					EntityType: audit.EntityTypeWorkType,
					EntityID:   int64(i + 1),
					Action:     audit.ActionCreate,
					ChangedBy:  "admin@vektora.se",
				})
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should apply the default limit when none is given", func() {
			_, err := service.History(audit.EntityTypeWorkType, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(audit.DefaultHistoryLimit))
		})

		It("should pass an explicit limit through", func() {
			records, err := service.History(audit.EntityTypeWorkType, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(3))
			Expect(records).To(HaveLen(3))
		})

		It("should return an empty history for an unknown entity type", func() {
			records, err := service.History("nonexistent", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("should map rows to read records", func() {
			records, err := service.History(audit.EntityTypeWorkType, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(5))
			Expect(records[0].EntityType).To(Equal(audit.EntityTypeWorkType))
			Expect(records[0].ChangedBy).To(Equal("admin@vektora.se"))
		})
	})

	Describe("DisplayValue", func() {
		It("should render typed values for the trail", func() {
			Expect(audit.DisplayValue(nil)).To(Equal(""))
			Expect(audit.DisplayValue("starter,growth")).To(Equal("starter,growth"))
			Expect(audit.DisplayValue(true)).To(Equal("true"))
			Expect(audit.DisplayValue(int64(42))).To(Equal("42"))
			Expect(audit.DisplayValue(1.5)).To(Equal("1.5"))
		})
	})
})
