package repos

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos/repostest"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return repostest.NewDB(t)
}

func testEvaluator(t *testing.T) *acl.Evaluator {
	t.Helper()
	e, err := acl.NewEvaluator(acl.MustDefaultTable(), acl.DefaultChains)
	require.NoError(t, err)
	return e
}

// userACL builds the ACL of a user holding roles, following ownership on db
func userACL(t *testing.T, db DBTX, userID int64, roles ...acl.Role) acl.ACL {
	t.Helper()
	return acl.NewApplicationACL(testEvaluator(t), ownerLookup{db: db}, userID, roles)
}

func guestACL(t *testing.T) acl.ACL {
	t.Helper()
	return acl.NewUnauthorizedACL(testEvaluator(t))
}

func tr(text string) models.Translations {
	return models.Translations{{Lang: "en", Text: text}}
}

func strPtr(s string) *string { return &s }

func newStorePayload(userID int64, slug string) *models.NewStore {
	return &models.NewStore{
		UserID:           userID,
		Name:             tr("Store " + slug),
		ShortDescription: tr("short"),
		Slug:             slug,
		DefaultLanguage:  "en",
	}
}

func newBaseProductPayload(storeID int64) *models.NewBaseProduct {
	return &models.NewBaseProduct{
		StoreID:          storeID,
		Name:             tr("Shirt"),
		ShortDescription: tr("A shirt"),
		CategoryID:       7,
		Currency:         models.CurrencyUSD,
	}
}

func newProductPayload(baseProductID int64) *models.NewProduct {
	return &models.NewProduct{
		BaseProductID: baseProductID,
		VendorCode:    "SKU-1",
		Price:         10,
		Currency:      models.CurrencyUSD,
	}
}

// catalog is the owner's store with one base product and one variant
type catalog struct {
	store       *models.Store
	baseProduct *models.BaseProduct
	product     *models.Product
}

func seedCatalog(t *testing.T, db *sql.DB, ownerID int64, slug string) catalog {
	t.Helper()
	ctx := context.Background()
	a := userACL(t, db, ownerID, acl.RoleUser)

	store, err := NewStores(db, a).Create(ctx, newStorePayload(ownerID, slug))
	require.NoError(t, err)
	bp, err := NewBaseProducts(db, a).Create(ctx, newBaseProductPayload(store.ID))
	require.NoError(t, err)
	p, err := NewProducts(db, a).Create(ctx, newProductPayload(bp.ID))
	require.NoError(t, err)

	return catalog{store: store, baseProduct: bp, product: p}
}

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []int64
	err error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userID)
	return r.err
}

func (r *recordingInvalidator) invalidated() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.ids...)
}
