package stats_test

import (
	"context"
	"testing"

	"go-traindesk/internal/employee"
	"go-traindesk/internal/sop"
	"go-traindesk/internal/stats"
	"go-traindesk/internal/training"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCounts struct {
	employees         int64
	activeTrainings   int64
	completed         int64
	sops              int64
	completedProgress int64
}

type fakeEmployeeCounter struct {
	employee.Repository
	n int64
}

func (f *fakeEmployeeCounter) CountByOwner(context.Context, string) (int64, error) {
	return f.n, nil
}

type fakeTrainingCounter struct {
	training.Repository
	active, completed int64
}

func (f *fakeTrainingCounter) CountByOwnerAndStatus(_ context.Context, _ string, status string) (int64, error) {
	if status == training.StatusActive {
		return f.active, nil
	}
	return f.completed, nil
}

type fakeSOPCounter struct {
	sop.Repository
	n int64
}

func (f *fakeSOPCounter) CountByOwner(context.Context, string) (int64, error) {
	return f.n, nil
}

type fakeProgressCounter struct {
	sop.ProgressRepository
	n int64
}

func (f *fakeProgressCounter) CountCompletedByOwner(context.Context, string) (int64, error) {
	return f.n, nil
}

func overview(t *testing.T, c fakeCounts) stats.Overview {
	t.Helper()

	svc := stats.NewService(
		&fakeEmployeeCounter{n: c.employees},
		&fakeTrainingCounter{active: c.activeTrainings, completed: c.completed},
		&fakeSOPCounter{n: c.sops},
		&fakeProgressCounter{n: c.completedProgress},
		zap.NewNop(),
	)

	out, err := svc.Overview(context.Background(), "owner-1")
	assert.NoError(t, err)
	return out
}

func TestStatsService_Overview(t *testing.T) {
	t.Run("live counts", func(t *testing.T) {
		out := overview(t, fakeCounts{
			employees:         4,
			activeTrainings:   2,
			completed:         1,
			sops:              5,
			completedProgress: 3,
		})

		assert.Equal(t, int64(4), out.Employees)
		assert.Equal(t, int64(2), out.ActiveTrainings)
		assert.Equal(t, int64(1), out.CompletedTrainings)
		assert.Equal(t, int64(5), out.SOPs)
		assert.Equal(t, int64(2), out.PendingSOPs)
	})

	t.Run("pending clamps at zero", func(t *testing.T) {
		// More completed progress records than SOPs can happen after SOPs
		// are deleted; the aggregate must not go negative.
		out := overview(t, fakeCounts{sops: 2, completedProgress: 7})

		assert.Equal(t, int64(0), out.PendingSOPs)
	})
}
