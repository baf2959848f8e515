package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	denied := &acl.DeniedError{Resource: acl.ResourceStores, Action: acl.ActionUpdate}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505", Constraint: "stores_slug_key"}, ErrConflict},
		{"foreign key violation", &pq.Error{Code: "23503"}, ErrValidation},
		{"check violation", &pq.Error{Code: "23514"}, ErrValidation},
		{"other postgres error", &pq.Error{Code: "53300"}, ErrDatabase},
		{"driver failure", errors.New("connection reset"), ErrDatabase},
		{"denied passes through", denied, acl.ErrDenied},
		{"invalid payload passes through", fmt.Errorf("%w: bad", models.ErrInvalidPayload), models.ErrInvalidPayload},
		{"canceled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("do thing", tt.err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, classify("do thing", nil))
	assert.False(t, errors.Is(classify("x", errors.New("boom")), ErrNotFound))
}

func TestStores_DatabaseFailureIsNotDenied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM stores WHERE is_active = true AND id = $1")).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection refused"))

	_, err = NewStores(db, acl.SystemACL{}).Find(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.False(t, acl.IsDenied(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStores_CreateSlugConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO stores")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "stores_slug_key"})

	_, err = NewStores(db, acl.SystemACL{}).Create(context.Background(), newStorePayload(10, "taken"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerLookup_FailureSurfacesAsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM stores WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnError(errors.New("timeout"))

	a := userACL(t, db, 10, acl.RoleUser)
	_, err = NewBaseProducts(db, a).Create(context.Background(), newBaseProductPayload(5))
	require.Error(t, err)
	assert.False(t, acl.IsDenied(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerLookup_NullOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM stores WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil))

	_, err = ownerLookup{db: db}.LookupColumn(context.Background(), "stores", "user_id", 5)
	assert.ErrorIs(t, err, acl.ErrOwnerNotFound)
}

func TestWithTx_CommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err = WithTx(context.Background(), db, func(*sql.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrDatabase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactory_ACL(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	f := NewFactory(db, testEvaluator(t), nil)

	anon, err := f.ACL(ctx, db, nil)
	require.NoError(t, err)
	assert.IsType(t, &acl.UnauthorizedACL{}, anon)

	_, err = f.UserRoles(db, f.SystemACL()).Create(ctx, &models.NewUserRole{UserID: 10, Name: acl.RoleSuperuser})
	require.NoError(t, err)

	userID := int64(10)
	a, err := f.ACL(ctx, db, &userID)
	require.NoError(t, err)
	require.NoError(t, a.Check(ctx, acl.ResourceAttributes, acl.ActionCreate, nil))

	_, err = f.UserRoles(db, f.SystemACL()).DeleteByUserID(ctx, 10)
	require.NoError(t, err)

	a, err = f.ACL(ctx, db, &userID)
	require.NoError(t, err)
	assert.True(t, acl.IsDenied(a.Check(ctx, acl.ResourceAttributes, acl.ActionCreate, nil)))
}

func TestFactory_BindFollowsTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	f := NewFactory(db, testEvaluator(t), nil)
	c := seedCatalog(t, db, 10, "acme")

	userID := int64(10)
	_, err := f.UserRoles(db, f.SystemACL()).Create(ctx, &models.NewUserRole{UserID: userID, Name: acl.RoleUser})
	require.NoError(t, err)
	a, err := f.ACL(ctx, db, &userID)
	require.NoError(t, err)

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		bound := f.Bind(a, tx)
		p, err := f.Products(tx, bound).Create(ctx, newProductPayload(c.baseProduct.ID))
		if err != nil {
			return err
		}
		_, err = f.ProductAttrs(tx, bound).Create(ctx, &models.NewProductAttr{
			ProdID: p.ID, BaseProdID: c.baseProduct.ID, AttrID: 1, Value: "XL", ValueType: models.ValueTypeStr,
		})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, f.SystemACL(), f.Bind(f.SystemACL(), db))
}
