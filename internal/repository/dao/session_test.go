package dao_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/basepoint-api/internal/dbtest"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

func TestSessionDAOLifecycle(t *testing.T) {
	ctx := context.Background()
	d := dao.NewSessionDAO(dbtest.Open(t))
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	state, err := d.Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsActive)

	_, err = d.Stop(ctx, start)
	assert.ErrorIs(t, err, dao.ErrSessionNotActive)

	state, err = d.Start(ctx, "admin#1", start)
	require.NoError(t, err)
	assert.True(t, state.IsActive)
	assert.Equal(t, "admin#1", state.StartedBy)
	require.NotNil(t, state.StartedAt)
	assert.Nil(t, state.EndedAt)

	_, err = d.Start(ctx, "admin#2", start.Add(time.Minute))
	assert.ErrorIs(t, err, dao.ErrSessionAlreadyActive)

	state, err = d.Stop(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, state.IsActive)
	assert.Equal(t, "admin#1", state.StartedBy)
	require.NotNil(t, state.EndedAt)
	assert.WithinDuration(t, start.Add(time.Hour), *state.EndedAt, time.Second)

	// the persisted row is what a restarted process reads back
	state, err = d.Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsActive)
	assert.Equal(t, "admin#1", state.StartedBy)

	state, err = d.Start(ctx, "admin#2", start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "admin#2", state.StartedBy)
	assert.Nil(t, state.EndedAt)
}

func TestSessionDAOConcurrentStart(t *testing.T) {
	ctx := context.Background()
	d := dao.NewSessionDAO(dbtest.Open(t))
	now := time.Now()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Start(ctx, "admin", now); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, dao.ErrSessionAlreadyActive)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}
