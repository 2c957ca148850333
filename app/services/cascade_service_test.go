package services

import (
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDependents gives storeID and productID a price, a membership, a
// contribution, a vote and (for the store) a rating.
func (f *fixture) seedDependents(storeID, productID string) {
	f.t.Helper()
	f.member(storeID, productID)
	f.price(storeID, productID, "1.00", true)
	f.submitPriceUpdate(storeID, productID, "1.05")
	require.NoError(f.t, f.votes.Create(f.ctx, &models.Vote{
		UserID: "user-1", StoreID: storeID, ProductID: productID, Kind: models.VoteKindPrice, Value: true,
	}))
	require.NoError(f.t, f.ratings.Upsert(f.ctx, &models.StoreRating{StoreID: storeID, UserID: "user-1", Score: 4}))
}

func TestDeleteStoreRemovesEveryDependent(t *testing.T) {
	f := newFixture(t)
	store := f.store("Doomed", 50.0, 4.0)
	other := f.store("Survivor", 51.0, 4.0)
	milk := f.product("Milk")
	bread := f.product("Bread")

	f.seedDependents(store.ID, milk.ID)
	f.seedDependents(store.ID, bread.ID)
	f.seedDependents(other.ID, milk.ID)

	report, err := f.cascade.DeleteStore(f.ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Prices)
	assert.Equal(t, int64(2), report.Memberships)
	assert.Equal(t, int64(1), report.Stores)

	for _, model := range []interface{}{&models.Price{}, &models.Contribution{}, &models.Vote{}, &models.StoreRating{}, &models.StoreProduct{}} {
		assert.Zero(t, f.count(model, "store_id = ?", store.ID), "%T", model)
		assert.NotZero(t, f.count(model, "store_id = ?", other.ID), "%T", model)
	}
	assert.Zero(t, f.count(&models.Store{}, "id = ?", store.ID))
	assert.ElementsMatch(t, []string{milk.ID, bread.ID}, f.cache.invalidated)

	_, err = f.cascade.DeleteStore(f.ctx, store.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductRemovesEveryDependent(t *testing.T) {
	f := newFixture(t)
	store := f.store("S", 50.0, 4.0)
	milk := f.product("Milk")
	bread := f.product("Bread")

	f.seedDependents(store.ID, milk.ID)
	f.seedDependents(store.ID, bread.ID)

	_, err := f.cascade.DeleteProduct(f.ctx, milk.ID)
	require.NoError(t, err)

	for _, model := range []interface{}{&models.Price{}, &models.Contribution{}, &models.Vote{}, &models.StoreProduct{}} {
		assert.Zero(t, f.count(model, "product_id = ?", milk.ID), "%T", model)
		assert.NotZero(t, f.count(model, "product_id = ?", bread.ID), "%T", model)
	}
	assert.Zero(t, f.count(&models.Product{}, "id = ?", milk.ID))
	assert.Equal(t, int64(1), f.count(&models.StoreRating{}, "store_id = ?", store.ID))
}

func TestDeleteStoreProductPair(t *testing.T) {
	f := newFixture(t)
	store := f.store("S", 50.0, 4.0)
	milk := f.product("Milk")
	bread := f.product("Bread")

	f.seedDependents(store.ID, milk.ID)
	f.seedDependents(store.ID, bread.ID)

	_, err := f.cascade.DeleteStoreProductPair(f.ctx, store.ID, milk.ID)
	require.NoError(t, err)

	pair := "store_id = ? AND product_id = ?"
	for _, model := range []interface{}{&models.Price{}, &models.Contribution{}, &models.Vote{}, &models.StoreProduct{}} {
		assert.Zero(t, f.count(model, pair, store.ID, milk.ID), "%T", model)
		assert.NotZero(t, f.count(model, pair, store.ID, bread.ID), "%T", model)
	}
	assert.Equal(t, int64(1), f.count(&models.Store{}, "id = ?", store.ID))
	assert.Equal(t, int64(1), f.count(&models.Product{}, "id = ?", milk.ID))

	_, err = f.cascade.DeleteStoreProductPair(f.ctx, store.ID, milk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
