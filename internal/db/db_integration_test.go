//go:build integration

package db_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/basepoint-api/internal/db"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

// openPostgres starts a throwaway postgres container and returns a migrated
// connection to it.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping(), "docker is required for integration tests")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=basepoint",
			"POSTGRES_PASSWORD=basepoint",
			"POSTGRES_DB=basepoint",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(300)

	url := fmt.Sprintf("postgres://basepoint:basepoint@%s/basepoint?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gdb *gorm.DB
	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		var err error
		gdb, err = db.OpenPostgresWithURL(url)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))
	// A second run must be a no-op.
	require.NoError(t, db.Migrate(gdb))

	return gdb
}

func TestPostgresLedger(t *testing.T) {
	ctx := context.Background()
	gdb := openPostgres(t)

	territory := repository.NewTerritoryRepository(dao.NewTerritoryDAO(gdb))
	sessions := repository.NewSessionRepository(dao.NewSessionDAO(gdb))
	factions := repository.NewFactionRepository(dao.NewFactionDAO(gdb))

	t.Run("point names are unique", func(t *testing.T) {
		_, err := territory.CreatePoint(ctx, domain.ContestedPoint{Name: "Alpha", CreatedBy: "ann#1"})
		require.NoError(t, err)

		_, err = territory.CreatePoint(ctx, domain.ContestedPoint{Name: "Alpha", CreatedBy: "ann#1"})
		assert.ErrorIs(t, err, repository.ErrPointNameExists)
	})

	t.Run("only one concurrent start wins", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := sessions.Start(ctx, fmt.Sprintf("admin#%d", i), time.Now()); err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, success)

		state, err := sessions.Get(ctx)
		require.NoError(t, err)
		assert.True(t, state.IsActive)
	})

	t.Run("concurrent credits are not lost", func(t *testing.T) {
		red, err := factions.Create(ctx, domain.Faction{Name: "Red"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := factions.CreditOrDebit(ctx, red.ID, 2, true, "basepoint reward", "reward-scheduler")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		found, err := factions.FindByID(ctx, red.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, found.Balance)

		_, err = factions.CreditOrDebit(ctx, red.ID, 51, false, "overdraft", "ann#1")
		assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

		transactions, err := factions.ListTransactions(ctx, red.ID, 100)
		require.NoError(t, err)
		assert.Len(t, transactions, 25)
	})
}
