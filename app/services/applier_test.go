package services

import (
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func contribution(t models.ContributionType, storeID, productID *string, data string) *models.Contribution {
	c := &models.Contribution{
		ID:        "c-" + string(t),
		UserID:    "user-1",
		StoreID:   storeID,
		ProductID: productID,
		Type:      t,
		Status:    models.StatusPending,
	}
	if data != "" {
		c.Data = datatypes.JSON(data)
	}
	return c
}

func TestApplyPriceUpdateWithoutPriceIsNoop(t *testing.T) {
	f := newFixture(t)

	c := contribution(models.ContributionPriceUpdate, ptr("1"), ptr("2"), "")
	res, err := f.applier.Apply(f.ctx, f.catalog, c)

	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.NotEmpty(t, res.Reason)
	assert.Zero(t, f.count(&models.Price{}, "1 = 1"))
	assert.Zero(t, f.count(&models.StoreProduct{}, "1 = 1"))
}

func TestApplyPriceUpdateWritesLedgerAndMembership(t *testing.T) {
	f := newFixture(t)

	c := contribution(models.ContributionPriceUpdate, ptr("s"), ptr("p"), `{"isPromotion":true}`)
	c.ReportedPrice = decimal.NewNullDecimal(decimal.RequireFromString("1.99"))
	c.ReportedAvailability = ptr(false)

	res, err := f.applier.Apply(f.ctx, f.catalog, c)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, []string{"p"}, res.TouchedProducts)

	price, err := f.catalog.Prices.FindByPair(f.ctx, "s", "p")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("1.99")))
	assert.True(t, price.IsPromotion)
	assert.False(t, price.IsAvailable)
	assert.Equal(t, models.PriceSourceContribution, price.Source)

	sp, err := f.catalog.Memberships.FindByPair(f.ctx, "s", "p")
	require.NoError(t, err)
	require.NotNil(t, sp)
	assert.False(t, sp.IsAvailable)
}

func TestApplyAddProductToStoreTwiceKeepsOneMembership(t *testing.T) {
	f := newFixture(t)

	c := contribution(models.ContributionAddProductToStore, ptr("1"), ptr("2"), "")
	first, err := f.applier.Apply(f.ctx, f.catalog, c)
	require.NoError(t, err)
	second, err := f.applier.Apply(f.ctx, f.catalog, c)
	require.NoError(t, err)

	assert.True(t, first.Applied)
	assert.False(t, second.Applied)
	assert.Equal(t, int64(1), f.count(&models.StoreProduct{}, "store_id = ? AND product_id = ?", "1", "2"))
}

func TestApplyAvailability(t *testing.T) {
	t.Run("no membership is a noop", func(t *testing.T) {
		f := newFixture(t)
		c := contribution(models.ContributionAvailability, ptr("s"), ptr("p"), "")
		c.ReportedAvailability = ptr(false)

		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Zero(t, f.count(&models.StoreProduct{}, "1 = 1"))
	})

	t.Run("updates membership and price", func(t *testing.T) {
		f := newFixture(t)
		f.member("s", "p")
		f.price("s", "p", "3.00", true)

		c := contribution(models.ContributionAvailability, ptr("s"), ptr("p"), "")
		c.ReportedAvailability = ptr(false)
		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		assert.True(t, res.Applied)

		sp, err := f.catalog.Memberships.FindByPair(f.ctx, "s", "p")
		require.NoError(t, err)
		assert.False(t, sp.IsAvailable)
		price, err := f.catalog.Prices.FindByPair(f.ctx, "s", "p")
		require.NoError(t, err)
		assert.False(t, price.IsAvailable)
		assert.True(t, price.Amount.Equal(decimal.NewFromInt(3)))
	})
}

func TestApplyNewProductWithStore(t *testing.T) {
	f := newFixture(t)
	store := f.store("Corner Shop", 50.85, 4.35)

	c := contribution(models.ContributionNewProduct, &store.ID, nil, `{"name":"Oat milk","brand":"Oaty","unit":"1L","barcode":"5411"}`)
	require.NoError(t, f.catalog.Contributions.Create(f.ctx, c))

	res, err := f.applier.Apply(f.ctx, f.catalog, c)
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.NotEmpty(t, res.CreatedProductID)

	product, err := f.catalog.Products.GetByID(f.ctx, res.CreatedProductID)
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", product.Name)
	assert.Equal(t, "Oaty", product.Brand)
	assert.True(t, product.IsActive)

	sp, err := f.catalog.Memberships.FindByPair(f.ctx, store.ID, product.ID)
	require.NoError(t, err)
	assert.NotNil(t, sp)

	stored, err := f.catalog.Contributions.FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProductID)
	assert.Equal(t, product.ID, *stored.ProductID)

	again := contribution(models.ContributionNewProduct, nil, nil, `{"name":"Copy","barcode":"5411"}`)
	again.ID = "c-dup"
	res, err = f.applier.Apply(f.ctx, f.catalog, again)
	require.NoError(t, err)
	assert.False(t, res.Applied, "duplicate barcode must not create a product")
}

func TestApplyNewStore(t *testing.T) {
	t.Run("without coordinates is a noop", func(t *testing.T) {
		f := newFixture(t)
		c := contribution(models.ContributionNewStore, nil, nil, `{"name":"Nowhere"}`)

		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Zero(t, f.count(&models.Store{}, "1 = 1"))
	})

	t.Run("creates an active store", func(t *testing.T) {
		f := newFixture(t)
		c := contribution(models.ContributionNewStore, nil, nil,
			`{"name":"Bakkerij","city":"Gent","latitude":"51.05","longitude":"3.72","openingHours":{"monday":[{"open":"07:00","close":"18:00"}]}}`)
		require.NoError(t, f.catalog.Contributions.Create(f.ctx, c))

		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		require.True(t, res.Applied)

		store, err := f.catalog.Stores.GetByID(f.ctx, res.CreatedStoreID)
		require.NoError(t, err)
		assert.Equal(t, "Bakkerij", store.Name)
		assert.Equal(t, "Bakkerij", store.Brand)
		assert.True(t, store.IsActive)
		assert.True(t, store.Latitude.Equal(decimal.RequireFromString("51.05")))
		assert.Equal(t, "07:00", store.OpeningHours.Data()["monday"][0].Open)
	})

	t.Run("keeps a known category", func(t *testing.T) {
		f := newFixture(t)
		category := f.category("Bakery")
		c := contribution(models.ContributionNewStore, nil, nil,
			`{"name":"Bakkerij","latitude":"51.05","longitude":"3.72","categoryId":"`+category.ID+`"}`)
		require.NoError(t, f.catalog.Contributions.Create(f.ctx, c))

		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		require.True(t, res.Applied)

		store, err := f.catalog.Stores.GetByID(f.ctx, res.CreatedStoreID)
		require.NoError(t, err)
		require.NotNil(t, store.CategoryID)
		assert.Equal(t, category.ID, *store.CategoryID)
	})

	t.Run("drops an unknown category", func(t *testing.T) {
		f := newFixture(t)
		c := contribution(models.ContributionNewStore, nil, nil,
			`{"name":"Bakkerij","latitude":"51.05","longitude":"3.72","categoryId":"gone"}`)
		require.NoError(t, f.catalog.Contributions.Create(f.ctx, c))

		res, err := f.applier.Apply(f.ctx, f.catalog, c)
		require.NoError(t, err)
		require.True(t, res.Applied)

		store, err := f.catalog.Stores.GetByID(f.ctx, res.CreatedStoreID)
		require.NoError(t, err)
		assert.Nil(t, store.CategoryID)
	})
}

func TestApplyTypesWithoutCatalogEffect(t *testing.T) {
	for _, typ := range []models.ContributionType{
		models.ContributionStoreUpdate,
		models.ContributionBugReport,
		models.ContributionFeatureRequest,
		models.ContributionSupport,
		models.ContributionBoth,
		models.ContributionType("price_drop_alert"),
	} {
		t.Run(string(typ), func(t *testing.T) {
			f := newFixture(t)
			res, err := f.applier.Apply(f.ctx, f.catalog, contribution(typ, ptr("s"), ptr("p"), `{}`))
			require.NoError(t, err)
			assert.False(t, res.Applied)
			assert.Zero(t, f.count(&models.Price{}, "1 = 1"))
			assert.Zero(t, f.count(&models.StoreProduct{}, "1 = 1"))
		})
	}
}

func TestApplyUndecodableDataIsNoop(t *testing.T) {
	f := newFixture(t)
	c := contribution(models.ContributionNewProduct, nil, nil, `["not","an","object"]`)

	res, err := f.applier.Apply(f.ctx, f.catalog, c)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Zero(t, f.count(&models.Product{}, "1 = 1"))
}
