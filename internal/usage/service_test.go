package usage_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/usage"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUsageService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Usage Service Suite")
}

// MockTimeEntryStore implements usage.TimeEntryStore for testing
type MockTimeEntryStore struct {
	counts    map[int64]int64
	lastDates map[int64]*time.Time
	failError error
	calls     int
}

func NewMockTimeEntryStore() *MockTimeEntryStore {
	return &MockTimeEntryStore{
		counts:    make(map[int64]int64),
		lastDates: make(map[int64]*time.Time),
	}
}

func (m *MockTimeEntryStore) CountByWorkType(workTypeID int64) (int64, *time.Time, error) {
	m.calls++
	if m.failError != nil {
		return 0, nil, m.failError
	}
	return m.counts[workTypeID], m.lastDates[workTypeID], nil
}

var _ = Describe("Usage Service", func() {
	var (
		mockStore *MockTimeEntryStore
		service   *usage.Service
	)

	BeforeEach(func() {
		mockStore = NewMockTimeEntryStore()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = usage.NewService(mockStore, logger)
	})

	Describe("CheckUsage", func() {
		Context("when the work type has time entries", func() {
			var lastUsed time.Time

			BeforeEach(func() {
				lastUsed = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
				mockStore.counts[7] = 47
				mockStore.lastDates[7] = &lastUsed
			})

			It("should report the count and last used date", func() {
				info, err := service.CheckUsage(7)
				Expect(err).NotTo(HaveOccurred())
				Expect(info.WorkTypeID).To(Equal(int64(7)))
				Expect(info.IsUsed).To(BeTrue())
				Expect(info.UsageCount).To(Equal(int64(47)))
				Expect(info.LastUsedDate).To(Equal(&lastUsed))
			})

			It("should hit the store on every call", func() {
				_, err := service.CheckUsage(7)
				Expect(err).NotTo(HaveOccurred())
				_, err = service.CheckUsage(7)
				Expect(err).NotTo(HaveOccurred())
				Expect(mockStore.calls).To(Equal(2))
			})
		})

		Context("when the work type has no time entries", func() {
			It("should report unused with a zero count and no date", func() {
				info, err := service.CheckUsage(7)
				Expect(err).NotTo(HaveOccurred())
				Expect(info.IsUsed).To(BeFalse())
				Expect(info.UsageCount).To(BeZero())
				Expect(info.LastUsedDate).To(BeNil())
			})
		})

		Context("when the store is unavailable", func() {
			BeforeEach(func() {
				mockStore.failError = errors.New("connection refused")
			})

			It("should return a data access error", func() {
				_, err := service.CheckUsage(7)
				Expect(err).To(HaveOccurred())

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeDataAccess))
				Expect(appErr.Code).To(Equal(internal.ErrCodeStoreUnavailable))
			})
		})
	})
})
