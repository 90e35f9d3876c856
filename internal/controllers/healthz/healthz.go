// Package healthz implements the health check endpoint.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibestats/backend/internal/httputil"
)

// Pinger reports whether the backing storage is reachable.
type Pinger interface {
	Ping() error
}

func RegisterRoutes(r *gin.RouterGroup, db Pinger) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", Get(db))
}

// Get returns a handler reporting the application health. It responds with an
// empty 204 when the storage answers a ping, and a 500 with the error when it
// does not.
func Get(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			httputil.Error(c, http.StatusInternalServerError, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
