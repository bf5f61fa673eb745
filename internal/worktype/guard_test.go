package worktype_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/audit"
	"github.com/vektora/capacity-admin/internal/worktype"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Deactivation Guard", func() {
	var (
		mockRepo    *MockRepository
		mockAuditor *MockAuditor
		mockUsage   *MockUsageChecker
		registry    *worktype.Service
		guard       *worktype.Guard
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockAuditor = &MockAuditor{}
		mockUsage = NewMockUsageChecker()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		registry = worktype.NewService(mockRepo, mockAuditor, mockUsage, logger)
		guard = worktype.NewGuard(registry, mockUsage, logger)

		mockRepo.Add(&worktype.WorkType{
			ID:                1,
			Name:              "Strategic Planning",
			CreditsPerHour:    2.0,
			AllowedPlanLevels: []worktype.PlanLevel{worktype.PlanGrowth, worktype.PlanScale},
			Category:          worktype.CategoryStrategic,
			Billable:          true,
			IsActive:          true,
			Version:           1,
		})
	})

	Describe("Deactivate", func() {
		Context("when the work type has no historical time entries", func() {
			It("should commit immediately without confirmation", func() {
				result, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Committed()).To(BeTrue())
				Expect(result.Confirmation).To(BeNil())
				Expect(result.WorkType.IsActive).To(BeFalse())
				Expect(result.WorkType.Version).To(Equal(int64(2)))
			})

			It("should record exactly one audit entry for the commit", func() {
				_, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{})
				Expect(err).NotTo(HaveOccurred())
				Expect(mockAuditor.entries).To(HaveLen(1))

				entry := mockAuditor.entries[0]
				Expect(entry.Action).To(Equal(audit.ActionDeactivate))
				Expect(entry.Changes).To(HaveLen(1))
				Expect(entry.Changes[0].Field).To(Equal("is_active"))
				Expect(entry.Changes[0].Old).To(Equal(true))
				Expect(entry.Changes[0].New).To(Equal(false))
			})
		})

		Context("when the work type is referenced by time entries", func() {
			var lastUsed time.Time

			BeforeEach(func() {
				lastUsed = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
				mockUsage.SetUsage(1, 47, &lastUsed)
			})

			It("should surface a confirmation requirement instead of committing", func() {
				result, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: false})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Committed()).To(BeFalse())
				Expect(result.Confirmation).NotTo(BeNil())
				Expect(result.Confirmation.WorkTypeID).To(Equal(int64(1)))
				Expect(result.Confirmation.UsageCount).To(Equal(int64(47)))
				Expect(result.Confirmation.LastUsedDate).To(Equal(&lastUsed))
			})

			It("should persist nothing while awaiting confirmation", func() {
				_, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: false})
				Expect(err).NotTo(HaveOccurred())

				row, err := mockRepo.GetByID(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(row.IsActive).To(BeTrue())
				Expect(row.Version).To(Equal(int64(1)))
				Expect(mockAuditor.entries).To(BeEmpty())
			})

			It("should leave no pending state: a second unconfirmed attempt behaves the same", func() {
				first, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: false})
				Expect(err).NotTo(HaveOccurred())
				second, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: false})
				Expect(err).NotTo(HaveOccurred())
				Expect(second.Confirmation).To(Equal(first.Confirmation))
			})

			It("should commit once confirmed", func() {
				result, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: true, Reason: "service retired"})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Committed()).To(BeTrue())
				Expect(result.WorkType.IsActive).To(BeFalse())

				Expect(mockAuditor.entries).To(HaveLen(1))
				Expect(mockAuditor.entries[0].Action).To(Equal(audit.ActionDeactivate))
				Expect(mockAuditor.entries[0].Reason).To(Equal("service retired"))
			})

			It("should re-check usage right before a confirmed commit", func() {
				mockUsage.calls = 0
				_, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(mockUsage.calls).To(BeNumerically(">=", 2))
			})
		})

		Context("when the work type is already inactive", func() {
			BeforeEach(func() {
				mockUsage.SetUsage(1, 47, nil)
				_, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: true})
				Expect(err).NotTo(HaveOccurred())
				mockAuditor.entries = nil
			})

			It("should short-circuit without a second audit entry", func() {
				result, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{Confirmed: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Committed()).To(BeTrue())
				Expect(result.WorkType.IsActive).To(BeFalse())
				Expect(mockAuditor.entries).To(BeEmpty())
			})
		})

		It("should return not found for an unknown work type", func() {
			_, err := guard.Deactivate(admin, 999, worktype.DeactivateDTO{})
			Expect(err).To(MatchError(internal.ErrWorkTypeNotFound))
		})

		It("should deny a viewer before touching anything", func() {
			_, err := guard.Deactivate(viewer, 1, worktype.DeactivateDTO{Confirmed: true})
			Expect(err).To(MatchError(internal.ErrNotPermitted))
			Expect(mockUsage.calls).To(BeZero())
		})
	})

	Describe("Reactivate", func() {
		BeforeEach(func() {
			_, err := guard.Deactivate(admin, 1, worktype.DeactivateDTO{})
			Expect(err).NotTo(HaveOccurred())
			mockAuditor.entries = nil
		})

		It("should restore the work type without a confirmation gate", func() {
			mockUsage.SetUsage(1, 47, nil)
			restored, err := guard.Reactivate(admin, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.IsActive).To(BeTrue())
			Expect(restored.Version).To(Equal(int64(3)))
		})

		It("should record one reactivation audit entry", func() {
			_, err := guard.Reactivate(admin, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockAuditor.entries).To(HaveLen(1))
			Expect(mockAuditor.entries[0].Action).To(Equal(audit.ActionReactivate))
		})

		It("should deny a viewer", func() {
			_, err := guard.Reactivate(viewer, 1)
			Expect(err).To(MatchError(internal.ErrNotPermitted))
		})
	})
})
