package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibestats/backend/internal/controllers"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/router"
	"github.com/vibestats/backend/internal/stats"
	"github.com/vibestats/backend/internal/storage"
)

type pinger struct {
	err error
}

func (p pinger) Ping() error {
	return p.err
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := overrides.NewStore(storage.NewMemory())
	co := controllers.New(store, stats.NewResolver(store, stats.NewSource()))

	r, err := router.Router(co, pinger{})
	require.NoError(t, err)

	return r
}

func request(t *testing.T, r *gin.Engine, method, url string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	r.ServeHTTP(recorder, req)

	return recorder
}

func TestGetRoot(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{
		"links": {
			"healthz": "/healthz",
			"metrics": "/metrics",
			"version": "/version",
			"v1": "/v1"
		}
	}`, recorder.Body.String())
}

func TestGetV1(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodGet, "/v1")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{
		"links": {
			"overrides": "/v1/overrides",
			"stats": "/v1/stats",
			"target": "/v1/target",
			"backup": "/v1/backup"
		}
	}`, recorder.Body.String())
}

func TestGetVersion(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodGet, "/version")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{ "data": { "version": "0.0.0" } }`, recorder.Body.String())
}

func TestHealthz(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestMetrics(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "vibestats_")
}

func TestOptions(t *testing.T) {
	for _, url := range []string{"/", "/version", "/v1"} {
		recorder := request(t, testRouter(t), http.MethodOptions, url)

		assert.Equal(t, http.StatusNoContent, recorder.Code, "url %s", url)
		assert.Equal(t, "OPTIONS, GET", recorder.Header().Get("allow"), "url %s", url)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	recorder := request(t, testRouter(t), http.MethodPost, "/version")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
