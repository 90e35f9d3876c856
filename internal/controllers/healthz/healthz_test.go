package healthz_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vibestats/backend/internal/controllers/healthz"
)

type pinger struct {
	err error
}

func (p pinger) Ping() error {
	return p.err
}

func request(t *testing.T, db healthz.Pinger, method string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	healthz.RegisterRoutes(r.Group("/healthz"), db)

	recorder := httptest.NewRecorder()
	req, err := http.NewRequest(method, "/healthz", nil)
	assert.NoError(t, err)
	r.ServeHTTP(recorder, req)

	return recorder
}

func TestHealthy(t *testing.T) {
	recorder := request(t, pinger{}, http.MethodGet)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestUnhealthy(t *testing.T) {
	recorder := request(t, pinger{err: errors.New("database is gone")}, http.MethodGet)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "database is gone")
}

func TestOptions(t *testing.T) {
	recorder := request(t, pinger{}, http.MethodOptions)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "OPTIONS, GET", recorder.Header().Get("allow"))
}
