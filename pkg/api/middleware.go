package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/httputil"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
)

const (
	// AuthorizationHeader carries the caller's user id
	AuthorizationHeader = "Authorization"
	// CurrencyHeader names the currency prices are returned in
	CurrencyHeader = "Currency"
)

// AuthMiddleware puts the user id from the Authorization header into the context
// and onto the request logger
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			observability.FromContext(r.Context()).WithField("authorization", raw).Debug("malformed authorization header")
			httputil.WriteUnauthorized(w, "authorization header must be a user id")
			return
		}

		ctx := contextkeys.WithUserID(r.Context(), userID)
		ctx = observability.WithLogger(ctx, observability.GetLogger(ctx).WithField("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrencyMiddleware validates the Currency header and puts it into the context
func CurrencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(CurrencyHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		currency, err := models.ParseCurrency(raw)
		if err != nil {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		ctx := contextkeys.WithCurrency(r.Context(), string(currency))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
