package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/backend"
	"dealflow/internal/models"
)

func setupTestRepo(t *testing.T) *DealRepo {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("error closing db: %v", err)
		}
	})
	return NewDealRepo(db, []models.Stage{
		{Key: "sourcing", Order: 0},
		{Key: "negotiation", Order: 1},
		{Key: "closed_won", Order: 2},
	})
}

func TestDealRepo_CreateAndList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateDeal(ctx, "sourcing", "TechCorp Acquisition", "TechCorp", 2500000, "high")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "sourcing", created.Stage)

	_, err = repo.CreateDeal(ctx, "negotiation", "Harbor Asset Purchase", "Harbor Foods", 1200000, "medium")
	require.NoError(t, err)

	deals, err := repo.ListDeals(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 2)

	first := deals[0]
	assert.Equal(t, "TechCorp Acquisition", first.Attr("name"))
	assert.Equal(t, "TechCorp", first.Attr("company"))
	assert.Equal(t, 2500000.0, first.AttrNumber("value"))
	assert.Equal(t, "high", first.Attr("priority"))
}

func TestDealRepo_UpdateStage(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateDeal(ctx, "sourcing", "Atlas Minority Stake", "Atlas Robotics", 650000, "low")
	require.NoError(t, err)

	updated, err := repo.UpdateStage(ctx, created.ID, "negotiation")
	require.NoError(t, err)
	assert.Equal(t, "negotiation", updated.Stage)
	assert.Equal(t, "Atlas Minority Stake", updated.Attr("name"))
}

// Rejections carry the same error shape as the real API so the
// transition service's rollback path behaves identically offline.
func TestDealRepo_UpdateStageRejections(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateDeal(ctx, "sourcing", "Northwind Merger", "Northwind", 4100000, "high")
	require.NoError(t, err)

	_, err = repo.UpdateStage(ctx, created.ID, "no_such_stage")
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_stage", apiErr.Code)

	_, err = repo.UpdateStage(ctx, "missing-id", "negotiation")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)

	// The rejected update left the deal untouched.
	deals, err := repo.ListDeals(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "sourcing", deals[0].Stage)
}

func TestDealRepo_SeedIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, "sourcing"))
	deals, err := repo.ListDeals(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	for _, d := range deals {
		assert.Equal(t, "sourcing", d.Stage)
	}

	// Seeding again must not duplicate the demo pipeline.
	require.NoError(t, repo.Seed(ctx, "sourcing"))
	again, err := repo.ListDeals(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(deals))
}

func TestOpen_AppliesSchema(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='deals'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "deals", name)

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='missing'`).Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
