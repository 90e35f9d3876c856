package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/httputil"
	"github.com/vibestats/backend/internal/metrics"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/types"
)

func (co Controller) registerOverrideRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetDelete)
	r.GET("", co.ListOverrides)
	r.DELETE("", co.ClearOverrides)

	r.OPTIONS("/:month", httputil.OptionsGetPutDelete)
	r.GET("/:month", co.GetOverride)
	r.PUT("/:month", co.SaveOverride)
	r.DELETE("/:month", co.DeleteOverride)
}

// OverrideListResponse lists all stored overrides, most recent month first.
type OverrideListResponse struct {
	Months []string          `json:"months"`
	Count  int               `json:"count"`
	Data   overrides.Storage `json:"data"`
}

// SaveOverrideRequest is the body for saving an override. Exactly one of the
// three detail levels is used, checked in this order: per-day category
// values, per-day totals, monthly total.
type SaveOverrideRequest struct {
	DailyCategoryValues map[string]overrides.Breakdown `json:"dailyCategoryValues"`
	DailyValues         map[string]decimal.Decimal     `json:"dailyValues"`
	CategoryPercentages *overrides.Ratios              `json:"categoryPercentages"`
	NetIncome           *decimal.Decimal               `json:"netIncome"`
	Note                string                         `json:"note"`
}

func (co Controller) ListOverrides(c *gin.Context) {
	c.JSON(http.StatusOK, OverrideListResponse{
		Months: co.store.Months(),
		Count:  co.store.Count(),
		Data:   co.store.All(),
	})
}

func (co Controller) GetOverride(c *gin.Context) {
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return
	}

	o, ok := co.store.Get(monthKey)
	if !ok {
		httputil.Error(c, http.StatusNotFound, errOverrideNotFound)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (co Controller) SaveOverride(c *gin.Context) {
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return
	}

	var request SaveOverrideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.Error(c, http.StatusBadRequest, err)
		return
	}

	daysInMonth := types.DaysInKey(monthKey)

	var o overrides.MonthlyOverride
	switch {
	case len(request.DailyCategoryValues) > 0:
		if !validDayKeys(c, keysOfBreakdowns(request.DailyCategoryValues), daysInMonth) {
			return
		}
		o = overrides.NewFromDailyCategoryValues(request.DailyCategoryValues, request.Note)

	case len(request.DailyValues) > 0:
		if !validDayKeys(c, keysOfValues(request.DailyValues), daysInMonth) {
			return
		}
		o = overrides.NewFromDailyValues(request.DailyValues, request.Note, request.CategoryPercentages)

	case request.NetIncome != nil:
		if request.NetIncome.IsNegative() {
			httputil.Error(c, http.StatusBadRequest, errNegativeAmount)
			return
		}
		o = overrides.NewFromMonthlyTotal(*request.NetIncome, daysInMonth, request.Note)

	default:
		httputil.Error(c, http.StatusBadRequest, errEmptyBody)
		return
	}

	if err := co.store.Save(monthKey, o); err != nil {
		httputil.Error(c, http.StatusInternalServerError, err)
		return
	}

	metrics.OverrideSaves.Inc()

	saved, _ := co.store.Get(monthKey)
	c.JSON(http.StatusOK, saved)
}

func (co Controller) DeleteOverride(c *gin.Context) {
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return
	}

	if err := co.store.Delete(monthKey); err != nil {
		httputil.Error(c, http.StatusInternalServerError, err)
		return
	}

	metrics.OverrideDeletes.Inc()
	c.Status(http.StatusNoContent)
}

func (co Controller) ClearOverrides(c *gin.Context) {
	if err := co.store.Clear(); err != nil {
		httputil.Error(c, http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// monthKeyParam validates the month path parameter. User-facing routes are
// strict about the key format, unlike the engine's internal helpers.
func monthKeyParam(c *gin.Context) (string, bool) {
	monthKey := c.Param("month")
	if !types.ValidKey(monthKey) {
		httputil.Error(c, http.StatusBadRequest, errInvalidMonthKey)
		return "", false
	}

	return monthKey, true
}

// validDayKeys rejects day keys outside 1..daysInMonth.
func validDayKeys(c *gin.Context, dayKeys []string, daysInMonth int) bool {
	for _, dayKey := range dayKeys {
		day, err := strconv.Atoi(dayKey)
		if err != nil || day < 1 || day > daysInMonth {
			httputil.Error(c, http.StatusBadRequest, fmt.Errorf("invalid day key %q, expected \"1\" to \"%d\"", dayKey, daysInMonth))
			return false
		}
	}

	return true
}

func keysOfBreakdowns(m map[string]overrides.Breakdown) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	return keys
}

func keysOfValues(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	return keys
}
