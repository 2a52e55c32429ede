package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
	"github.com/gmoran-dev/csv-price-updater/internal/service"
)

type fixedFetcher struct {
	prices map[string]float64
}

func (f *fixedFetcher) FetchPrice(ctx context.Context, styleCode string) (float64, bool) {
	price, ok := f.prices[styleCode]
	return price, ok
}

func newTestHandler(prices map[string]float64) *PriceUpdateHandler {
	svc := service.NewBatchService(&fixedFetcher{prices: prices}, service.BatchServiceConfig{})
	return &PriceUpdateHandler{
		service:       svc,
		store:         service.NewBatchStore(time.Minute),
		maxUploadSize: 1024 * 1024,
	}
}

func uploadCSV(t *testing.T) string {
	t.Helper()
	columns := service.TemplateColumns()
	record := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case "itKey":
			record[i] = "10001"
		case "itVendorId":
			record[i] = "GAB"
		case "itVendStyleCode":
			record[i] = "LR51264"
		case "itRetailPrice":
			record[i] = "999.00"
		}
	}
	return strings.Join(columns, ",") + "\n" + strings.Join(record, ",")
}

func multipartRequest(t *testing.T, csvBody, lowest, current string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if csvBody != "" {
		part, err := writer.CreateFormFile("file", "export.csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(csvBody)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	_ = writer.WriteField("lowestPricePercentage", lowest)
	_ = writer.WriteField("currentPricePercentage", current)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestProcessEndpointReturnsReport(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(map[string]float64{"LR51264": 250})

	req := multipartRequest(t, uploadCSV(t), "80", "100")
	rec := httptest.NewRecorder()
	if err := handler.process(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results      []domain.ProcessingResult `json:"results"`
		SuccessCount int                       `json:"successCount"`
		FailedCount  int                       `json:"failedCount"`
		BatchID      uuid.UUID                 `json:"batchId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SuccessCount != 1 || resp.FailedCount != 0 {
		t.Fatalf("unexpected counts: %d/%d", resp.SuccessCount, resp.FailedCount)
	}
	if resp.BatchID == uuid.Nil {
		t.Fatal("expected a batch id")
	}
	if resp.Results[0].FetchedPrice == nil || *resp.Results[0].FetchedPrice != 250 {
		t.Fatalf("unexpected fetched price: %v", resp.Results[0].FetchedPrice)
	}

	// the cached batch serves the same report back
	if batch, ok := handler.store.Get(resp.BatchID); !ok || batch.Result.SuccessCount != 1 {
		t.Fatal("expected batch in store")
	}
}

func TestProcessEndpointMissingFile(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	req := multipartRequest(t, "", "80", "100")
	rec := httptest.NewRecorder()
	if err := handler.process(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No file uploaded") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProcessEndpointInvalidPercentage(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(map[string]float64{"LR51264": 250})

	req := multipartRequest(t, uploadCSV(t), "eighty", "100")
	rec := httptest.NewRecorder()
	if err := handler.process(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid percentage values") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProcessEndpointOversizeUpload(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)
	handler.maxUploadSize = 16

	req := multipartRequest(t, uploadCSV(t), "80", "100")
	rec := httptest.NewRecorder()
	if err := handler.process(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestDownloadSuccessfulRendersAttachment(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	fetched := 250.0
	lowest := 200.0
	current := 250.0
	body, _ := json.Marshal(map[string]any{
		"results": []domain.ProcessingResult{{
			Row:                    domain.CsvRow{ItKey: "K1", ItVendorID: "V1", ItVendStyleCode: "GB-1"},
			Status:                 domain.RowStatusSuccess,
			FetchedPrice:           &fetched,
			CalculatedLowestPrice:  &lowest,
			CalculatedCurrentPrice: &current,
		}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/download/successful", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler.downloadSuccessful(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "successful_updates.csv") {
		t.Fatalf("unexpected disposition %q", cd)
	}

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("download is not valid csv: %v", err)
	}
	if records[1][3] != "250.00" || records[1][4] != "200.00" {
		t.Fatalf("unexpected export row %v", records[1])
	}
}

func TestDownloadRejectsNonArrayResults(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	for _, body := range []string{`{"results": "nope"}`, `{}`, `{"results": null}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/download/failed", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		if err := handler.downloadFailed(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for body %s, got %d", body, rec.Code)
		}
	}
}

func TestGetBatchUnknownID(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/batches/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	if err := handler.getBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBatchDownloadFiltersByStatus(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	message := "Failed to fetch price from website"
	fetched := 100.0
	batch := handler.store.Put(domain.BatchResult{
		Results: []domain.ProcessingResult{
			{
				Row:                    domain.CsvRow{ItKey: "K1"},
				Status:                 domain.RowStatusSuccess,
				FetchedPrice:           &fetched,
				CalculatedLowestPrice:  &fetched,
				CalculatedCurrentPrice: &fetched,
			},
			{
				Row:          domain.CsvRow{ItKey: "K2", ItRetailPrice: "50.00"},
				Status:       domain.RowStatusFailed,
				ErrorMessage: &message,
			},
		},
		SuccessCount: 1,
		FailedCount:  1,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/batches/"+batch.ID.String()+"/download/failed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(batch.ID.String())
	if err := handler.downloadBatchFailed(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("download is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 failed row, got %d records", len(records))
	}
	if records[1][0] != "K2" || records[1][6] != message {
		t.Fatalf("unexpected failed row %v", records[1])
	}
}

func TestTemplateDownload(t *testing.T) {
	e := echo.New()
	handler := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/template", nil)
	rec := httptest.NewRecorder()
	if err := handler.template(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("template is not valid csv: %v", err)
	}
	if len(records) != 2 || len(records[0]) != 29 {
		t.Fatalf("expected 29-column header plus sample row, got %dx%d", len(records), len(records[0]))
	}
	if records[0][0] != "itKey" || records[0][28] != "wlkUrl" {
		t.Fatalf("unexpected template header bounds: %q ... %q", records[0][0], records[0][28])
	}
}
