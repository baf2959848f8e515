package services

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/cache"
	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
	"github.com/platinummonkey/stores/pkg/repos/repostest"
	"github.com/platinummonkey/stores/pkg/search"
)

const (
	ownerID     int64 = 10
	otherID     int64 = 20
	superuserID int64 = 1
)

type testEnv struct {
	db      *sql.DB
	factory *repos.Factory
	svc     *Service
}

func newTestEnv(t *testing.T, searchClient *search.Client) *testEnv {
	t.Helper()
	db := repostest.NewDB(t)

	evaluator, err := acl.NewEvaluator(acl.MustDefaultTable(), acl.DefaultChains)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	caches := cache.New(cache.DefaultConfig(), nil, nil, log, nil)
	factory := repos.NewFactory(db, evaluator, caches)

	pool, err := NewPool(4)
	require.NoError(t, err)

	env := &testEnv{db: db, factory: factory, svc: New(db, factory, searchClient, pool)}
	env.grant(t, superuserID, acl.RoleSuperuser)
	env.grant(t, ownerID, acl.RoleUser)
	env.grant(t, otherID, acl.RoleUser)
	return env
}

// grant stores a role through the system path so the resolver forgets the old set
func (e *testEnv) grant(t *testing.T, userID int64, role acl.Role) {
	t.Helper()
	roles := repos.NewUserRoles(e.db, acl.SystemACL{}, e.factory.Resolver())
	_, err := roles.Create(context.Background(), &models.NewUserRole{UserID: userID, Name: role})
	require.NoError(t, err)
}

func as(userID int64) context.Context {
	return contextkeys.WithUserID(context.Background(), userID)
}

func tr(text string) models.Translations {
	return models.Translations{{Lang: "en", Text: text}}
}

func newStore(slug string) *models.NewStore {
	return &models.NewStore{
		UserID:           ownerID,
		Name:             tr("Store " + slug),
		ShortDescription: tr("short"),
		Slug:             slug,
		DefaultLanguage:  "en",
	}
}

func newVariant(code string, price float64) models.NewProductWithAttributes {
	return models.NewProductWithAttributes{
		Product: models.NewProduct{VendorCode: code, Price: price, Currency: models.CurrencyUSD},
	}
}

func newBaseProduct(storeID int64, variants ...models.NewProductWithAttributes) *models.NewBaseProductWithVariants {
	return &models.NewBaseProductWithVariants{
		NewBaseProduct: models.NewBaseProduct{
			StoreID:          storeID,
			Name:             tr("Shirt"),
			ShortDescription: tr("A shirt"),
			CategoryID:       3,
			Currency:         models.CurrencyUSD,
		},
		Variants: variants,
	}
}

func (e *testEnv) createAttribute(t *testing.T, name string, vt models.ValueType) *models.Attribute {
	t.Helper()
	attr, err := e.svc.CreateAttribute(as(superuserID), &models.NewAttribute{Name: tr(name), ValueType: vt})
	require.NoError(t, err)
	return attr
}

// seedStore creates the owner's store with one base product holding the given variants
func (e *testEnv) seedStore(t *testing.T, slug string, variants ...models.NewProductWithAttributes) (*models.Store, *models.BaseProductWithVariants) {
	t.Helper()
	ctx := as(ownerID)
	store, err := e.svc.CreateStore(ctx, newStore(slug))
	require.NoError(t, err)
	bp, err := e.svc.CreateBaseProduct(ctx, newBaseProduct(store.ID, variants...))
	require.NoError(t, err)
	return store, bp
}
