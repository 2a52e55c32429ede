package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
	"github.com/gmoran-dev/csv-price-updater/internal/service"
	"github.com/gmoran-dev/csv-price-updater/internal/util"
)

const (
	successfulExportFilename = "successful_updates.csv"
	failedExportFilename     = "manual_review_required.csv"
	templateFilename         = "pos-export-template.csv"
)

type PriceUpdateHandler struct {
	service       *service.BatchService
	store         *service.BatchStore
	maxUploadSize int64
}

func RegisterPriceUpdates(e *echo.Echo, svc *service.BatchService, store *service.BatchStore, maxUpload int64) {
	handler := &PriceUpdateHandler{
		service:       svc,
		store:         store,
		maxUploadSize: maxUpload,
	}

	e.POST("/api/process", handler.process)
	e.POST("/api/download/successful", handler.downloadSuccessful)
	e.POST("/api/download/failed", handler.downloadFailed)
	e.GET("/api/batches/:id", handler.getBatch)
	e.GET("/api/batches/:id/download/successful", handler.downloadBatchSuccessful)
	e.GET("/api/batches/:id/download/failed", handler.downloadBatchFailed)
	e.GET("/api/template", handler.template)
}

type processResponse struct {
	domain.BatchResult
	BatchID uuid.UUID `json:"batchId"`
}

func (h *PriceUpdateHandler) process(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	defer src.Close()

	limit := h.maxUploadSize
	if limit <= 0 {
		limit = 8 * 1024 * 1024
	}

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("failed reading upload"))
	}
	if int64(len(data)) > limit {
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error("upload exceeds size limit"))
	}

	// A client disconnect must not abort an in-flight batch, so the row loop
	// runs on a fresh context rather than the request's.
	result, err := h.service.Process(context.Background(),
		data,
		c.FormValue("lowestPricePercentage"),
		c.FormValue("currentPricePercentage"),
	)
	if err != nil {
		return h.writeError(c, err)
	}

	batch := h.store.Put(*result)
	return c.JSON(http.StatusOK, processResponse{
		BatchResult: *result,
		BatchID:     batch.ID,
	})
}

type downloadRequest struct {
	Results []domain.ProcessingResult `json:"results"`
}

func (h *PriceUpdateHandler) downloadSuccessful(c echo.Context) error {
	results, ok := bindDownloadResults(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	return writeExport(c, results, service.SuccessfulExportCSV, successfulExportFilename)
}

func (h *PriceUpdateHandler) downloadFailed(c echo.Context) error {
	results, ok := bindDownloadResults(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	return writeExport(c, results, service.FailedExportCSV, failedExportFilename)
}

func (h *PriceUpdateHandler) getBatch(c echo.Context) error {
	batch, ok := h.lookupBatch(c)
	if !ok {
		return c.JSON(http.StatusNotFound, util.Error("batch not found"))
	}
	return c.JSON(http.StatusOK, batch)
}

func (h *PriceUpdateHandler) downloadBatchSuccessful(c echo.Context) error {
	batch, ok := h.lookupBatch(c)
	if !ok {
		return c.JSON(http.StatusNotFound, util.Error("batch not found"))
	}
	results := service.FilterByStatus(batch.Result.Results, domain.RowStatusSuccess)
	return writeExport(c, results, service.SuccessfulExportCSV, successfulExportFilename)
}

func (h *PriceUpdateHandler) downloadBatchFailed(c echo.Context) error {
	batch, ok := h.lookupBatch(c)
	if !ok {
		return c.JSON(http.StatusNotFound, util.Error("batch not found"))
	}
	results := service.FilterByStatus(batch.Result.Results, domain.RowStatusFailed)
	return writeExport(c, results, service.FailedExportCSV, failedExportFilename)
}

func (h *PriceUpdateHandler) template(c echo.Context) error {
	headers := service.TemplateColumns()
	sample := map[string]string{
		"itKey":           "10001",
		"itVendorId":      "GAB",
		"itVendStyleCode": "LR51264W45JJ",
		"itDesc":          "14K White Gold Diamond Ring",
		"catName":         "Rings",
		"itMetalType":     "14K Gold",
		"itMetalColor":    "White",
		"itRetailPrice":   "1250.00",
		"itLowestPrice":   "1000.00",
		"itCurrentPrice":  "1250.00",
		"itMfg":           "Gabriel & Co",
	}
	sampleRow := make([]string, len(headers))
	for i, col := range headers {
		sampleRow[i] = sample[col]
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write(headers)
	_ = writer.Write(sampleRow)
	writer.Flush()

	if err := writer.Error(); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not generate template"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+templateFilename+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *PriceUpdateHandler) lookupBatch(c echo.Context) (*domain.Batch, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, false
	}
	return h.store.Get(id)
}

func (h *PriceUpdateHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidPercentage):
		return c.JSON(http.StatusBadRequest, util.Error("Invalid percentage values"))
	case errors.Is(err, service.ErrMalformedCSV):
		return c.JSON(http.StatusBadRequest, util.Error("Failed to parse CSV file"))
	case errors.Is(err, service.ErrEmptyFile):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrRowLimitExceeded):
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("Failed to process CSV file"))
	}
}

func bindDownloadResults(c echo.Context) ([]domain.ProcessingResult, bool) {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return nil, false
	}
	if req.Results == nil {
		return nil, false
	}
	return req.Results, true
}

func writeExport(c echo.Context, results []domain.ProcessingResult, render func([]domain.ProcessingResult) ([]byte, error), filename string) error {
	data, err := render(results)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("Failed to generate CSV file"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
