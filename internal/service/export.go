package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
)

const reviewFallbackMessage = "Failed to fetch price"

var exportColumns = []string{
	"itKey", "itVendorId", "itVendStyleCode",
	"itRetailPrice", "itLowestPrice", "itCurrentPrice",
}

// SuccessfulExportCSV renders the update file for rows whose price lookup
// succeeded. The fetched and derived prices override the original columns,
// formatted to exactly two decimal places; when a numeric value is absent the
// original row's string is echoed instead.
func SuccessfulExportCSV(results []domain.ProcessingResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, res := range results {
		record := []string{
			res.Row.ItKey,
			res.Row.ItVendorID,
			res.Row.ItVendStyleCode,
			formatPrice(res.FetchedPrice, res.Row.ItRetailPrice),
			formatPrice(res.CalculatedLowestPrice, res.Row.ItLowestPrice),
			formatPrice(res.CalculatedCurrentPrice, res.Row.ItCurrentPrice),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FailedExportCSV renders the manual-review file. Prices are always the
// original row's values since no fetch succeeded for these rows.
func FailedExportCSV(results []domain.ProcessingResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := append(append([]string{}, exportColumns...), "errorMessage")
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, res := range results {
		message := reviewFallbackMessage
		if res.ErrorMessage != nil && *res.ErrorMessage != "" {
			message = *res.ErrorMessage
		}
		record := []string{
			res.Row.ItKey,
			res.Row.ItVendorID,
			res.Row.ItVendStyleCode,
			res.Row.ItRetailPrice,
			res.Row.ItLowestPrice,
			res.Row.ItCurrentPrice,
			message,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FilterByStatus keeps the results matching one status, preserving order.
func FilterByStatus(results []domain.ProcessingResult, status domain.RowStatus) []domain.ProcessingResult {
	out := make([]domain.ProcessingResult, 0, len(results))
	for _, res := range results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

func formatPrice(value *float64, fallback string) string {
	if value == nil {
		return fallback
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}
