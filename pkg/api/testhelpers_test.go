package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/cache"
	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/repos"
	"github.com/platinummonkey/stores/pkg/repos/repostest"
	"github.com/platinummonkey/stores/pkg/services"
)

const (
	ownerID     int64 = 10
	otherID     int64 = 20
	superuserID int64 = 1
)

type testServer struct {
	svc     *services.Service
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := repostest.NewDB(t)

	evaluator, err := acl.NewEvaluator(acl.MustDefaultTable(), acl.DefaultChains)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	factory := repos.NewFactory(db, evaluator, cache.New(cache.DefaultConfig(), nil, nil, log, nil))

	roles := repos.NewUserRoles(db, acl.SystemACL{}, factory.Resolver())
	for userID, role := range map[int64]acl.Role{superuserID: acl.RoleSuperuser, ownerID: acl.RoleUser, otherID: acl.RoleUser} {
		_, err := roles.Create(context.Background(), &models.NewUserRole{UserID: userID, Name: role})
		require.NoError(t, err)
	}

	pool, err := services.NewPool(2)
	require.NoError(t, err)
	svc := services.New(db, factory, nil, pool)

	server := NewServer(svc)
	handler := server.Handler(Options{
		Logger:      observability.NewLogger(observability.ErrorLevel, io.Discard),
		CORSOrigins: []string{"*"},
	})
	return &testServer{svc: svc, handler: handler}
}

// do sends a request as userID; zero means anonymous
func (ts *testServer) do(t *testing.T, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(AuthorizationHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
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

func (ts *testServer) seedStore(t *testing.T, slug string) *models.Store {
	t.Helper()
	store, err := ts.svc.CreateStore(as(ownerID), newStore(slug))
	require.NoError(t, err)
	return store
}
