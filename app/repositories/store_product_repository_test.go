package repositories

import (
	"context"
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/db/testdb"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMembershipIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	repo := NewStoreProductRepository(db)
	ctx := context.Background()

	first, err := repo.EnsureMembership(ctx, "s", "p", true)
	require.NoError(t, err)
	second, err := repo.EnsureMembership(ctx, "s", "p", true)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsAvailable)

	var count int64
	require.NoError(t, db.Model(&models.StoreProduct{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureMembershipUpdatesAvailability(t *testing.T) {
	repo := NewStoreProductRepository(testdb.New(t))
	ctx := context.Background()

	_, err := repo.EnsureMembership(ctx, "s", "p", true)
	require.NoError(t, err)
	sp, err := repo.EnsureMembership(ctx, "s", "p", false)
	require.NoError(t, err)

	assert.False(t, sp.IsAvailable)
}

func TestCreateIfMissingLeavesExistingRowAlone(t *testing.T) {
	repo := NewStoreProductRepository(testdb.New(t))
	ctx := context.Background()

	_, err := repo.EnsureMembership(ctx, "s", "p", false)
	require.NoError(t, err)

	sp, created, err := repo.CreateIfMissing(ctx, "s", "p", true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, sp.IsAvailable)

	other, created, err := repo.CreateIfMissing(ctx, "s", "p2", true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, other.IsAvailable)
}

func TestMembershipSetAvailabilityByID(t *testing.T) {
	repo := NewStoreProductRepository(testdb.New(t))
	ctx := context.Background()

	sp, err := repo.EnsureMembership(ctx, "s", "p", true)
	require.NoError(t, err)

	updated, err := repo.SetAvailability(ctx, sp.ID, false)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsAvailable)

	missing, err := repo.SetAvailability(ctx, "no-such-id", false)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRemoveMembership(t *testing.T) {
	repo := NewStoreProductRepository(testdb.New(t))
	ctx := context.Background()

	_, err := repo.EnsureMembership(ctx, "s", "p", true)
	require.NoError(t, err)
	_, err = repo.EnsureMembership(ctx, "s", "p2", true)
	require.NoError(t, err)

	ids, err := repo.ProductIDsByStore(ctx, "s")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p", "p2"}, ids)

	n, err := repo.Remove(ctx, "s", "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByPair(ctx, "s", "p")
	require.NoError(t, err)
	assert.Nil(t, got)
}
