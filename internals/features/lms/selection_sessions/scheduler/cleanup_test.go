package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmsku_backend/internals/features/lms/selection_sessions/model"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

func TestRunSelectionCleanupDrainsInBatches(t *testing.T) {
	store := selSvc.NewMemoryStore()
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	for i := 0; i < purgeBatch+5; i++ {
		require.NoError(t, store.Save(ctx, &model.SelectionSessionModel{
			SelectionSessionOwnerID:   uuid.New(),
			SelectionSessionListKey:   "learning_paths",
			SelectionSessionScope:     "page",
			SelectionSessionExpiresAt: past,
		}))
	}
	require.NoError(t, store.Save(ctx, &model.SelectionSessionModel{
		SelectionSessionOwnerID:   uuid.New(),
		SelectionSessionListKey:   "learning_paths",
		SelectionSessionScope:     "page",
		SelectionSessionExpiresAt: time.Now().Add(time.Hour),
	}))

	svc := selSvc.NewService(store, time.Hour)
	n := RunSelectionCleanup(ctx, svc)
	assert.EqualValues(t, purgeBatch+5, n)
	assert.Equal(t, 1, store.Len())
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := selSvc.NewService(selSvc.NewMemoryStore(), time.Hour)
	StartSelectionCleanupScheduler(ctx, svc, 10*time.Millisecond)
	cancel()
	// tidak boleh panic / deadlock setelah cancel
	time.Sleep(20 * time.Millisecond)
}
