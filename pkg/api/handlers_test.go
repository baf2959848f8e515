package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
)

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthcheck", 0, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Ok"`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(httputil.RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/stores/not-a-number", 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateStore(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/stores", ownerID, newStore("corner-shop"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var store models.Store
	decode(t, rec, &store)
	assert.Equal(t, ownerID, store.UserID)
	assert.Equal(t, "corner-shop", store.Slug)
	assert.Equal(t, models.StatusDraft, store.Status)
}

func TestCreateStore_Anonymous(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/stores", 0, newStore("corner-shop"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateStore_ForSomeoneElse(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/stores", otherID, newStore("corner-shop"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body httputil.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "forbidden", body.Error)
}

func TestCreateStore_BadPayloads(t *testing.T) {
	ts := newTestServer(t)

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/stores", strings.NewReader("{"))
		req.Header.Set(AuthorizationHeader, fmt.Sprint(ownerID))
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid slug", func(t *testing.T) {
		payload := newStore("Not A Slug")
		rec := ts.do(t, http.MethodPost, "/stores", ownerID, payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/stores", strings.NewReader("slug=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(AuthorizationHeader, fmt.Sprint(ownerID))
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetStore(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "corner-shop")
	path := fmt.Sprintf("/stores/%d", store.ID)

	for name, userID := range map[string]int64{"anonymous": 0, "owner": ownerID, "other user": otherID} {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, path, userID, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var got models.Store
			decode(t, rec, &got)
			assert.Equal(t, store.ID, got.ID)
		})
	}

	rec := ts.do(t, http.MethodGet, "/stores/9999", ownerID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStore(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "corner-shop")
	path := fmt.Sprintf("/stores/%d", store.ID)
	slogan := "always open"
	payload := models.UpdateStore{Slogan: &slogan}

	rec := ts.do(t, http.MethodPut, path, otherID, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, path, ownerID, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Store
	decode(t, rec, &got)
	require.NotNil(t, got.Slogan)
	assert.Equal(t, slogan, *got.Slogan)
}

func TestModerateStore(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "corner-shop")

	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/stores/%d", store.ID), ownerID, map[string]interface{}{"status": "published"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "owner update payload has no status")

	path := fmt.Sprintf("/stores/%d/moderate", store.ID)
	decision := map[string]interface{}{"status": "published", "rating": 5}

	rec = ts.do(t, http.MethodPut, path, ownerID, decision)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, path, superuserID, decision)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Store
	decode(t, rec, &got)
	assert.Equal(t, models.StatusPublished, got.Status)
	assert.Equal(t, 5.0, got.Rating)
}

func TestDeactivateStore(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "corner-shop")
	path := fmt.Sprintf("/stores/%d", store.ID)

	rec := ts.do(t, http.MethodDelete, path, ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, path, ownerID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndCountStores(t *testing.T) {
	ts := newTestServer(t)
	first := ts.seedStore(t, "first")
	ts.seedStore(t, "second")

	rec := ts.do(t, http.MethodGet, "/stores/count", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "2", rec.Body.String())

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/stores?from=%d&count=1", first.ID), 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stores []models.Store
	decode(t, rec, &stores)
	require.Len(t, stores, 1)
	assert.Equal(t, first.ID, stores[0].ID)

	rec = ts.do(t, http.MethodGet, "/stores?count=abc", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreSlugExists(t *testing.T) {
	ts := newTestServer(t)
	ts.seedStore(t, "corner-shop")

	rec := ts.do(t, http.MethodGet, "/stores/slug_exists?slug=corner-shop", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/stores/slug_exists?slug=elsewhere", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "false", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/stores/slug_exists", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchWithoutBackend(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/stores/search", 0, models.StoreSearch{Name: "corner"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	for _, path := range []string{
		"/stores/search/filters/count",
		"/stores/search/filters/country",
		"/stores/search/filters/category",
		"/base_products/search/filters/category",
		"/base_products/search/filters/attributes",
		"/base_products/search/filters/count",
	} {
		rec := ts.do(t, http.MethodPost, path, 0, models.ProductSearch{Name: "corner"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestStoreProductsCountAndProductLookups(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "shop")

	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/stores/%d/products/count", store.ID), 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "0", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/stores/999/products/count", 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/store_id", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/store_id?product_id=999", 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/999/seller_price", 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCoupons(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "corner-shop")

	payload := models.NewCoupon{Code: "SALE10", Title: "Ten off", StoreID: store.ID, Scope: models.CouponScopeStore, Percent: 10, Quantity: 5}

	rec := ts.do(t, http.MethodPost, "/coupons", otherID, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/coupons", ownerID, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var coupon models.Coupon
	decode(t, rec, &coupon)
	path := fmt.Sprintf("/coupons/%d", coupon.ID)

	rec = ts.do(t, http.MethodGet, path, ownerID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, path, superuserID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// unreadable coupons look missing
	rec = ts.do(t, http.MethodGet, path, otherID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/coupons/by_code/SALE10", ownerID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/coupons/by_store/%d", store.ID), otherID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Coupon
	decode(t, rec, &listed)
	assert.Empty(t, listed)
}

func TestRoles(t *testing.T) {
	ts := newTestServer(t)
	const newcomer int64 = 30

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/roles/default/%d", newcomer), 0, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var role models.UserRole
	decode(t, rec, &role)
	assert.Equal(t, newcomer, role.UserID)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/user_roles/%d", newcomer), newcomer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var roles []models.UserRole
	decode(t, rec, &roles)
	assert.Len(t, roles, 1)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/user_roles/%d", newcomer), otherID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roles = nil
	decode(t, rec, &roles)
	assert.Empty(t, roles)

	rec = ts.do(t, http.MethodPost, "/user_roles", otherID, models.NewUserRole{UserID: otherID, Name: "superuser"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStoresCartAndCouponUse(t *testing.T) {
	ts := newTestServer(t)
	store := ts.seedStore(t, "cart-shop")

	rec := ts.do(t, http.MethodPost, "/stores/cart", 0, []models.CartProduct{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/stores/cart", 0, []models.CartProduct{{ProductID: 1, Quantity: 0}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/coupons", ownerID, models.NewCoupon{
		Code: "ONCE", Title: "Once", StoreID: store.ID, Scope: models.CouponScopeStore, Percent: 10, Quantity: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var coupon models.Coupon
	decode(t, rec, &coupon)

	use := fmt.Sprintf("/coupons/%d/use", coupon.ID)
	rec = ts.do(t, http.MethodPost, use, superuserID, models.NewUsedCoupon{UserID: otherID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, use, superuserID, models.NewUsedCoupon{UserID: otherID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/coupons/%d/used/%d", coupon.ID, otherID), otherID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", rec.Body.String())
}
