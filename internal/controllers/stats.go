package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/httputil"
	"github.com/vibestats/backend/internal/metrics"
)

func (co Controller) registerStatsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:month", httputil.OptionsGet)
	r.GET("/:month", co.GetStats)
}

func (co Controller) registerTargetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPut)
	r.GET("", co.GetTarget)
	r.PUT("", co.SetTarget)
}

// TargetResponse carries the simulation target amount.
type TargetResponse struct {
	TargetAmount decimal.Decimal `json:"targetAmount"`
}

// GetStats resolves the earnings data for a month. The target amount for the
// simulation path comes from the "target" query parameter, falling back to
// the stored target.
func (co Controller) GetStats(c *gin.Context) {
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return
	}

	target := co.store.TargetAmount()
	if raw, ok := c.GetQuery("target"); ok {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			httputil.Error(c, http.StatusBadRequest, err)
			return
		}

		if parsed.IsNegative() {
			httputil.Error(c, http.StatusBadRequest, errNegativeAmount)
			return
		}

		target = parsed
	}

	result := co.resolver.Resolve(monthKey, target)
	if !result.IsManualOverride {
		metrics.Simulations.Inc()
	}

	c.JSON(http.StatusOK, result)
}

func (co Controller) GetTarget(c *gin.Context) {
	c.JSON(http.StatusOK, TargetResponse{TargetAmount: co.store.TargetAmount()})
}

func (co Controller) SetTarget(c *gin.Context) {
	var request TargetResponse
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.Error(c, http.StatusBadRequest, err)
		return
	}

	if request.TargetAmount.IsNegative() {
		httputil.Error(c, http.StatusBadRequest, errNegativeAmount)
		return
	}

	if err := co.store.SetTargetAmount(request.TargetAmount); err != nil {
		httputil.Error(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, TargetResponse{TargetAmount: co.store.TargetAmount()})
}
