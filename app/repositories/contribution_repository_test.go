package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/db/testdb"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContribution(t *testing.T, repo ContributionRepository, status models.ContributionStatus) *models.Contribution {
	t.Helper()
	c := &models.Contribution{UserID: "user-1", Type: models.ContributionSupport, Status: status, Priority: models.PriorityNormal}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestBulkTransitionOnlyMovesLegalSources(t *testing.T) {
	repo := NewContributionRepository(testdb.New(t))
	ctx := context.Background()

	pending := seedContribution(t, repo, models.StatusPending)
	approved := seedContribution(t, repo, models.StatusApproved)
	deleted := seedContribution(t, repo, models.StatusDeleted)

	stamp := ReviewStamp{ReviewerID: "admin-1", ReviewedAt: time.Now()}
	n, err := repo.BulkTransition(ctx, []string{pending.ID, approved.ID, deleted.ID, "missing"}, models.StatusRejected, stamp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for id, want := range map[string]models.ContributionStatus{
		pending.ID:  models.StatusRejected,
		approved.ID: models.StatusApproved,
		deleted.ID:  models.StatusDeleted,
	} {
		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	n, err = repo.BulkTransition(ctx, []string{pending.ID, approved.ID, deleted.ID}, models.StatusDeleted, stamp)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "already deleted rows are not counted")
}

func TestListHidesDeletedUnlessAsked(t *testing.T) {
	repo := NewContributionRepository(testdb.New(t))
	ctx := context.Background()

	seedContribution(t, repo, models.StatusPending)
	seedContribution(t, repo, models.StatusDeleted)

	all, err := repo.List(ctx, ContributionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := repo.List(ctx, ContributionFilter{Status: models.StatusDeleted})
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
}

func TestPurgeDeletedBefore(t *testing.T) {
	repo := NewContributionRepository(testdb.New(t))
	ctx := context.Background()

	old := seedContribution(t, repo, models.StatusDeleted)
	seedContribution(t, repo, models.StatusPending)

	n, err := repo.PurgeDeletedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
