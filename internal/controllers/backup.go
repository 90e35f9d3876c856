package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vibestats/backend/internal/backup"
	"github.com/vibestats/backend/internal/httputil"
	"github.com/vibestats/backend/internal/metrics"
)

func (co Controller) registerBackupRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/csv", httputil.OptionsGetPost)
	r.GET("/csv", co.ExportCSV)
	r.POST("/csv", co.ImportCSV)
}

// ExportCSV streams all stored overrides as a CSV download.
func (co Controller) ExportCSV(c *gin.Context) {
	data := backup.Export(co.store)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(backup.DefaultFilenamePrefix)))
	c.Data(http.StatusOK, backup.ContentType, []byte(data))
}

// ImportCSV restores overrides from an uploaded CSV backup. The response
// reports per-row problems instead of failing the whole request.
func (co Controller) ImportCSV(c *gin.Context) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		httputil.Error(c, http.StatusBadRequest, errNoFilePost)
		return
	}

	if err != nil {
		httputil.Error(c, http.StatusBadRequest, err)
		return
	}

	if !strings.HasSuffix(formFile.Filename, ".csv") {
		httputil.Error(c, http.StatusBadRequest, errWrongFileSuffix)
		return
	}

	file, err := formFile.Open()
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	result := backup.Import(co.store, file)
	metrics.ImportedMonths.Add(float64(result.Success))

	c.JSON(http.StatusOK, result)
}
