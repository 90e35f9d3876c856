// Package controllers implements the HTTP surface of the override engine.
// The presentation layer only ever talks to these endpoints; no other engine
// internals are exposed.
package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/stats"
)

var (
	errInvalidMonthKey  = errors.New("invalid month key, expected format \"YYYY-MM\" between 2000-01 and 2100-12")
	errOverrideNotFound = errors.New("there is no override for this month")
	errNoFilePost       = errors.New("you must send a file with the parameter name \"file\"")
	errWrongFileSuffix  = errors.New("this endpoint only supports .csv files")
	errEmptyBody        = errors.New("the request body must contain dailyCategoryValues, dailyValues or netIncome")
	errNegativeAmount   = errors.New("amounts must not be negative")
)

// Controller holds the engine components the handlers operate on.
type Controller struct {
	store    *overrides.Store
	resolver *stats.Resolver
}

// New returns a Controller backed by the given store and resolver.
func New(store *overrides.Store, resolver *stats.Resolver) Controller {
	return Controller{store: store, resolver: resolver}
}

// RegisterRoutes registers all v1 resources on the group.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	co.registerOverrideRoutes(r.Group("/overrides"))
	co.registerStatsRoutes(r.Group("/stats"))
	co.registerTargetRoutes(r.Group("/target"))
	co.registerBackupRoutes(r.Group("/backup"))
}
