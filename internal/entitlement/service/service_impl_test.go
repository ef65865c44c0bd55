package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"github.com/vexaai/vexa/internal/entitlement/domain"
	"github.com/vexaai/vexa/internal/entitlement/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:entitlementdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE entitlements (
			id INTEGER PRIMARY KEY,
			customer_email TEXT NOT NULL,
			workflow_id INTEGER,
			all_access BOOLEAN NOT NULL DEFAULT 0,
			sale_reference TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX entitlements_single ON entitlements (customer_email, workflow_id) WHERE workflow_id IS NOT NULL`,
		`CREATE UNIQUE INDEX entitlements_all ON entitlements (customer_email) WHERE all_access`,
	}
	for _, stmt := range schema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func grant(t *testing.T, gdb *gorm.DB, repo domain.Repository, id int64, email string, workflowID *snowflake.ID, allAccess bool) bool {
	t.Helper()
	inserted, err := repo.Grant(context.Background(), gdb, &domain.Entitlement{
		ID:            snowflake.ID(id),
		CustomerEmail: email,
		WorkflowID:    workflowID,
		AllAccess:     allAccess,
		SaleReference: fmt.Sprintf("VEXA-%012d", id),
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
	return inserted
}

func TestHasAccess(t *testing.T) {
	gdb := setupDB(t)
	repo := repository.Provide()
	svc := New(Params{DB: gdb, Log: zap.NewNop(), Repo: repo})

	owned := snowflake.ID(100)
	other := snowflake.ID(200)

	require.True(t, grant(t, gdb, repo, 1, "buyer@example.com", &owned, false))

	ok, err := svc.HasAccess(context.Background(), "buyer@example.com", owned)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.HasAccess(context.Background(), "buyer@example.com", other)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.HasAccess(context.Background(), "stranger@example.com", owned)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllAccessCoversEveryWorkflow(t *testing.T) {
	gdb := setupDB(t)
	repo := repository.Provide()
	svc := New(Params{DB: gdb, Log: zap.NewNop(), Repo: repo})

	require.True(t, grant(t, gdb, repo, 1, "vip@example.com", nil, true))

	for _, id := range []snowflake.ID{1, 42, 9999} {
		ok, err := svc.HasAccess(context.Background(), "vip@example.com", id)
		require.NoError(t, err)
		require.True(t, ok, "workflow %d", id)
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	gdb := setupDB(t)
	repo := repository.Provide()

	workflowID := snowflake.ID(100)

	require.True(t, grant(t, gdb, repo, 1, "buyer@example.com", &workflowID, false))
	require.False(t, grant(t, gdb, repo, 2, "buyer@example.com", &workflowID, false))

	require.True(t, grant(t, gdb, repo, 3, "buyer@example.com", nil, true))
	require.False(t, grant(t, gdb, repo, 4, "buyer@example.com", nil, true))

	svc := New(Params{DB: gdb, Log: zap.NewNop(), Repo: repo})
	list, err := svc.ListByEmail(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
}
