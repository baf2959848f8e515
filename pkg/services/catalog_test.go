package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

func countRows(t *testing.T, env *testEnv, table string) int {
	t.Helper()
	var n int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestCreateBaseProduct_WithVariantsAndAttributes(t *testing.T) {
	env := newTestEnv(t, nil)
	size := env.createAttribute(t, "size", models.ValueTypeStr)

	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: size.ID, Value: "M"}}
	_, bp := env.seedStore(t, "shop", v, newVariant("SKU-2", 12))

	require.Len(t, bp.Variants, 2)
	require.Len(t, bp.Variants[0].Attributes, 1)
	attr := bp.Variants[0].Attributes[0]
	assert.Equal(t, models.ValueTypeStr, attr.ValueType)
	assert.Equal(t, bp.ID, attr.BaseProdID)
	assert.Empty(t, bp.Variants[1].Attributes)

	got, err := env.svc.GetBaseProductWithVariants(context.Background(), bp.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "SKU-1", got.Variants[0].VendorCode)
	assert.Equal(t, "M", got.Variants[0].Attributes[0].Value)
}

func TestCreateBaseProduct_FailedVariantRollsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	store, err := env.svc.CreateStore(as(ownerID), newStore("shop"))
	require.NoError(t, err)

	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: 999, Value: "M"}}
	_, err = env.svc.CreateBaseProduct(as(ownerID), newBaseProduct(store.ID, v))
	assert.ErrorIs(t, err, repos.ErrNotFound)

	assert.Equal(t, 0, countRows(t, env, "base_products"))
	assert.Equal(t, 0, countRows(t, env, "products"))
}

func TestCreateBaseProduct_InForeignStoreDenied(t *testing.T) {
	env := newTestEnv(t, nil)
	store, err := env.svc.CreateStore(as(ownerID), newStore("shop"))
	require.NoError(t, err)

	_, err = env.svc.CreateBaseProduct(as(otherID), newBaseProduct(store.ID, newVariant("SKU-1", 10)))
	assert.True(t, acl.IsDenied(err))
	assert.Equal(t, 0, countRows(t, env, "base_products"))
}

func TestCreateProduct_TakesBaseProductCurrency(t *testing.T) {
	env := newTestEnv(t, nil)
	_, bp := env.seedStore(t, "shop")

	v := newVariant("SKU-1", 10)
	v.Product.BaseProductID = bp.ID
	v.Product.Currency = models.CurrencyEUR
	p, err := env.svc.CreateProduct(as(ownerID), &v)
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyUSD, p.Currency)
}

func TestCreateProduct_VendorCodeUniquePerStore(t *testing.T) {
	env := newTestEnv(t, nil)
	store, bp := env.seedStore(t, "shop", newVariant("SKU-1", 10))

	second, err := env.svc.CreateBaseProduct(as(ownerID), newBaseProduct(store.ID))
	require.NoError(t, err)
	v := newVariant("SKU-1", 12)
	v.Product.BaseProductID = second.ID
	_, err = env.svc.CreateProduct(as(ownerID), &v)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
	assert.Equal(t, 1, countRows(t, env, "products"))

	otherStore, err := env.svc.CreateStore(as(otherID), &models.NewStore{
		UserID:           otherID,
		Name:             tr("Other"),
		ShortDescription: tr("short"),
		Slug:             "other",
		DefaultLanguage:  "en",
	})
	require.NoError(t, err)
	_, err = env.svc.CreateBaseProduct(as(otherID), newBaseProduct(otherStore.ID, newVariant("SKU-1", 10)))
	require.NoError(t, err, "vendor codes are scoped to a store")

	t.Run("update to a taken code", func(t *testing.T) {
		v := newVariant("SKU-2", 12)
		v.Product.BaseProductID = bp.ID
		created, err := env.svc.CreateProduct(as(ownerID), &v)
		require.NoError(t, err)

		taken := "SKU-1"
		_, err = env.svc.UpdateProduct(as(ownerID), created.ID, &models.UpdateProductWithAttributes{
			Product: &models.UpdateProduct{VendorCode: &taken},
		})
		assert.ErrorIs(t, err, models.ErrInvalidPayload)
	})
}

func TestCreateProduct_DuplicateAttributeCombination(t *testing.T) {
	env := newTestEnv(t, nil)
	size := env.createAttribute(t, "size", models.ValueTypeStr)
	color := env.createAttribute(t, "color", models.ValueTypeStr)

	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: size.ID, Value: "M"}}
	_, bp := env.seedStore(t, "shop", v)

	create := func(code string, values ...models.AttrValue) error {
		v := newVariant(code, 10)
		v.Product.BaseProductID = bp.ID
		v.Attributes = values
		_, err := env.svc.CreateProduct(as(ownerID), &v)
		return err
	}

	assert.ErrorIs(t, create("SKU-2", models.AttrValue{AttrID: size.ID, Value: "M"}), models.ErrInvalidPayload)
	require.NoError(t, create("SKU-3", models.AttrValue{AttrID: size.ID, Value: "L"}))

	_, err := env.svc.CreateCustomAttribute(as(ownerID), &models.NewCustomAttribute{BaseProductID: bp.ID, AttributeID: size.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, create("SKU-4", models.AttrValue{AttrID: color.ID, Value: "red"}), models.ErrInvalidPayload,
		"attribute outside the custom set")
	require.NoError(t, create("SKU-5", models.AttrValue{AttrID: size.ID, Value: "S"}))
	assert.Equal(t, 3, countRows(t, env, "products"))
}

func TestDeactivateStore_Cascades(t *testing.T) {
	env := newTestEnv(t, nil)
	size := env.createAttribute(t, "size", models.ValueTypeStr)
	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: size.ID, Value: "M"}}
	store, bp := env.seedStore(t, "shop", v)

	_, err := env.svc.DeactivateStore(as(otherID), store.ID)
	assert.True(t, acl.IsDenied(err))

	deactivated, err := env.svc.DeactivateStore(as(ownerID), store.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = env.svc.GetStore(context.Background(), store.ID)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, err = env.svc.GetBaseProduct(context.Background(), bp.ID)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, err = env.svc.GetProduct(context.Background(), bp.Variants[0].ID)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	assert.Equal(t, 0, countRows(t, env, "prod_attr_values"))
}

func TestDeactivateProduct_DeletesAttributes(t *testing.T) {
	env := newTestEnv(t, nil)
	size := env.createAttribute(t, "size", models.ValueTypeStr)
	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: size.ID, Value: "M"}}
	_, bp := env.seedStore(t, "shop", v, newVariant("SKU-2", 12))

	p, err := env.svc.DeactivateProduct(as(ownerID), bp.Variants[0].ID)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Equal(t, 0, countRows(t, env, "prod_attr_values"))

	variants, err := env.svc.ListProductsByBaseProduct(context.Background(), bp.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "SKU-2", variants[0].VendorCode)
}

func TestUpdateProduct_UpsertsAttributes(t *testing.T) {
	env := newTestEnv(t, nil)
	size := env.createAttribute(t, "size", models.ValueTypeStr)
	weight := env.createAttribute(t, "weight", models.ValueTypeFloat)
	v := newVariant("SKU-1", 10)
	v.Attributes = []models.AttrValue{{AttrID: size.ID, Value: "M"}}
	_, bp := env.seedStore(t, "shop", v)

	price := 15.0
	updated, err := env.svc.UpdateProduct(as(ownerID), bp.Variants[0].ID, &models.UpdateProductWithAttributes{
		Product: &models.UpdateProduct{Price: &price},
		Attributes: []models.AttrValue{
			{AttrID: size.ID, Value: "L"},
			{AttrID: weight.ID, Value: "0.4"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Price)
	require.Len(t, updated.Attributes, 2)

	values := map[int64]string{}
	for _, a := range updated.Attributes {
		values[a.AttrID] = a.Value
	}
	assert.Equal(t, map[int64]string{size.ID: "L", weight.ID: "0.4"}, values)

	_, err = env.svc.SetProductAttributes(as(otherID), bp.Variants[0].ID, []models.AttrValue{{AttrID: size.ID, Value: "S"}})
	assert.True(t, acl.IsDenied(err))
}

func TestSetBaseProductCurrency_RewritesVariants(t *testing.T) {
	env := newTestEnv(t, nil)
	_, bp := env.seedStore(t, "shop", newVariant("SKU-1", 10), newVariant("SKU-2", 12))

	got, err := env.svc.SetBaseProductCurrency(as(ownerID), bp.ID, models.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyEUR, got.Currency)

	variants, err := env.svc.ListProductsByBaseProduct(context.Background(), bp.ID)
	require.NoError(t, err)
	for _, v := range variants {
		assert.Equal(t, models.CurrencyEUR, v.Currency)
	}

	_, err = env.svc.SetBaseProductCurrency(as(ownerID), bp.ID, models.Currency("XXX"))
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestIncrementBaseProductViews(t *testing.T) {
	env := newTestEnv(t, nil)
	_, bp := env.seedStore(t, "shop")

	for i := 0; i < 2; i++ {
		_, err := env.svc.IncrementBaseProductViews(context.Background(), bp.ID)
		require.NoError(t, err)
	}
	got, err := env.svc.GetBaseProduct(context.Background(), bp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestCurrencyConversion(t *testing.T) {
	env := newTestEnv(t, nil)
	_, bp := env.seedStore(t, "shop", newVariant("SKU-1", 10))
	productID := bp.Variants[0].ID
	inEUR := contextkeys.WithCurrency(context.Background(), "EUR")

	p, err := env.svc.GetProduct(inEUR, productID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Price, "no snapshot leaves prices untouched")
	assert.Equal(t, models.CurrencyUSD, p.Currency)

	_, err = env.svc.UpdateCurrencyExchange(as(ownerID), &models.NewCurrencyExchange{
		Data: models.ExchangeRates{models.CurrencyEUR: {models.CurrencyUSD: 0.5}},
	})
	assert.True(t, acl.IsDenied(err))

	_, err = env.svc.UpdateCurrencyExchange(as(superuserID), &models.NewCurrencyExchange{
		Data: models.ExchangeRates{models.CurrencyEUR: {models.CurrencyUSD: 0.5}},
	})
	require.NoError(t, err)

	p, err = env.svc.GetProduct(inEUR, productID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, p.Price, 1e-9)
	assert.Equal(t, models.CurrencyEUR, p.Currency)

	withVariants, err := env.svc.GetBaseProductWithVariants(inEUR, bp.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, withVariants.Variants[0].Price, 1e-9)

	inRUB := contextkeys.WithCurrency(context.Background(), "RUB")
	p, err = env.svc.GetProduct(inRUB, productID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Price, "unknown rate leaves the price untouched")
	assert.Equal(t, models.CurrencyUSD, p.Currency)
}

func TestListStoreProducts(t *testing.T) {
	env := newTestEnv(t, nil)
	store, first := env.seedStore(t, "shop")
	second, err := env.svc.CreateBaseProduct(as(ownerID), newBaseProduct(store.ID))
	require.NoError(t, err)

	all, err := env.svc.ListStoreProducts(context.Background(), store.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	page, err := env.svc.ListStoreProducts(context.Background(), store.ID, second.ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	_, err = env.svc.ListStoreProducts(context.Background(), 999, 0, 10)
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestCountStoreProducts(t *testing.T) {
	env := newTestEnv(t, nil)
	store, first := env.seedStore(t, "shop")
	_, err := env.svc.CreateBaseProduct(as(ownerID), newBaseProduct(store.ID))
	require.NoError(t, err)

	n, err := env.svc.CountStoreProducts(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = env.svc.DeactivateBaseProduct(as(ownerID), first.ID)
	require.NoError(t, err)
	n, err = env.svc.CountStoreProducts(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = env.svc.CountStoreProducts(context.Background(), 999)
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestProductStoreIDAndSellerPrice(t *testing.T) {
	env := newTestEnv(t, nil)
	store, bp := env.seedStore(t, "shop", newVariant("SKU-1", 10))
	productID := bp.Variants[0].ID
	_, err := env.svc.UpdateCurrencyExchange(as(superuserID), &models.NewCurrencyExchange{
		Data: models.ExchangeRates{models.CurrencyEUR: {models.CurrencyUSD: 0.5}},
	})
	require.NoError(t, err)
	inEUR := contextkeys.WithCurrency(context.Background(), "EUR")

	storeID, err := env.svc.GetProductStoreID(inEUR, productID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, storeID)

	price, err := env.svc.GetProductSellerPrice(inEUR, productID)
	require.NoError(t, err)
	assert.Equal(t, &models.ProductSellerPrice{Price: 10, Currency: models.CurrencyUSD}, price)

	_, err = env.svc.GetProductStoreID(context.Background(), 999)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, err = env.svc.GetProductSellerPrice(context.Background(), 999)
	assert.ErrorIs(t, err, repos.ErrNotFound)
}
