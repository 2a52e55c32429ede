package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
)

var (
	ErrEmptyFile         = errors.New("csv file is empty")
	ErrFileTooLarge      = errors.New("csv file exceeds maximum size")
	ErrInvalidPercentage = errors.New("invalid percentage values")
	ErrMalformedCSV      = errors.New("failed to parse csv file")
	ErrRowLimitExceeded  = errors.New("csv exceeds maximum allowed rows")
)

const fetchFailedMessage = "Failed to fetch price from website"

// PriceFetcher is the outbound lookup the row pipeline depends on. The bool
// is false when no usable price could be obtained; fetchers never error.
type PriceFetcher interface {
	FetchPrice(ctx context.Context, styleCode string) (float64, bool)
}

type BatchServiceConfig struct {
	MaxRows      int
	MaxFileBytes int64
}

// BatchService drives the row pipeline over an uploaded CSV: parse, validate,
// fetch, derive, classify, count.
type BatchService struct {
	fetcher      PriceFetcher
	maxRows      int
	maxFileBytes int64
}

func NewBatchService(fetcher PriceFetcher, cfg BatchServiceConfig) *BatchService {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = 2000
	}
	maxFile := cfg.MaxFileBytes
	if maxFile <= 0 {
		maxFile = 8 * 1024 * 1024
	}
	return &BatchService{
		fetcher:      fetcher,
		maxRows:      maxRows,
		maxFileBytes: maxFile,
	}
}

// Process runs one batch. Request-level problems (bad percentages, an
// unparseable file, size limits) return an error before any row is touched;
// per-row problems become failed results and never abort the batch. Rows are
// processed strictly sequentially in input order.
func (s *BatchService) Process(ctx context.Context, contents []byte, lowestPct, currentPct string) (*domain.BatchResult, error) {
	if len(contents) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxFileBytes > 0 && int64(len(contents)) > s.maxFileBytes {
		return nil, ErrFileTooLarge
	}

	cfg, err := parseConfig(lowestPct, currentPct)
	if err != nil {
		return nil, err
	}

	header, records, err := parseCSV(contents)
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && len(records) > s.maxRows {
		return nil, ErrRowLimitExceeded
	}

	result := &domain.BatchResult{
		Results: make([]domain.ProcessingResult, 0, len(records)),
	}
	for _, record := range records {
		row := s.processRow(ctx, rowToMap(header, record), cfg)
		result.Results = append(result.Results, row)
		switch row.Status {
		case domain.RowStatusSuccess:
			result.SuccessCount++
		case domain.RowStatusFailed:
			result.FailedCount++
		}
	}
	return result, nil
}

// processRow takes one parsed record through validation, price lookup, and
// derivation. Every failure path, including a panic from unexpected input,
// lands in a failed result so the batch keeps going.
func (s *BatchService) processRow(ctx context.Context, values map[string]string, cfg domain.ProcessingConfig) (result domain.ProcessingResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("batch: recovered processing row %q: %v", values["itKey"], r)
			result = failedResult(rowFromValues(values), fmt.Sprintf("%v", r))
		}
	}()

	row, err := validateRow(values)
	if err != nil {
		return failedResult(rowFromValues(values), err.Error())
	}

	price, ok := s.fetcher.FetchPrice(ctx, row.ItVendStyleCode)
	if !ok {
		return failedResult(row, fetchFailedMessage)
	}

	lowest, current := derivePrices(price, cfg.LowestPricePercentage, cfg.CurrentPricePercentage)
	return domain.ProcessingResult{
		Row:                    row,
		Status:                 domain.RowStatusSuccess,
		FetchedPrice:           &price,
		CalculatedLowestPrice:  &lowest,
		CalculatedCurrentPrice: &current,
	}
}

// derivePrices applies the batch percentages to a fetched price. No rounding
// happens here; two-decimal formatting is an export-time concern.
func derivePrices(fetched, lowestPct, currentPct float64) (lowest, current float64) {
	return fetched * lowestPct / 100, fetched * currentPct / 100
}

func failedResult(row domain.CsvRow, message string) domain.ProcessingResult {
	return domain.ProcessingResult{
		Row:          row,
		Status:       domain.RowStatusFailed,
		ErrorMessage: &message,
	}
}

func parseConfig(lowestPct, currentPct string) (domain.ProcessingConfig, error) {
	lowest, err := parsePercentage(lowestPct)
	if err != nil {
		return domain.ProcessingConfig{}, err
	}
	current, err := parsePercentage(currentPct)
	if err != nil {
		return domain.ProcessingConfig{}, err
	}
	return domain.ProcessingConfig{
		LowestPricePercentage:  lowest,
		CurrentPricePercentage: current,
	}, nil
}

func parsePercentage(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPercentage, raw)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %v is outside 0-100", ErrInvalidPercentage, v)
	}
	return v, nil
}

// parseCSV reads the upload with header-row semantics. A structural problem
// such as a ragged record aborts the whole batch.
func parseCSV(contents []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(contents))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyFile
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	normHeader := make([]string, len(header))
	for i, h := range header {
		normHeader[i] = normalizeHeader(h)
	}

	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if isRecordEmpty(record) {
			continue
		}
		rows = append(rows, record)
	}
	return normHeader, rows, nil
}

func rowToMap(header []string, record []string) map[string]string {
	out := make(map[string]string, len(header))
	for idx, key := range header {
		val := ""
		if idx < len(record) {
			val = strings.TrimSpace(record[idx])
		}
		out[key] = val
	}
	return out
}

func isRecordEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
}
