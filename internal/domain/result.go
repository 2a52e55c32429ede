package domain

import (
	"time"

	"github.com/google/uuid"
)

type RowStatus string

const (
	RowStatusPending RowStatus = "pending"
	RowStatusSuccess RowStatus = "success"
	RowStatusFailed  RowStatus = "failed"
)

// ProcessingResult records the outcome for one input row. A success carries
// all three prices and no error message; a failure carries none of the prices
// and a non-nil error message. RowStatusPending never appears in a completed
// batch.
type ProcessingResult struct {
	Row                    CsvRow    `json:"row"`
	Status                 RowStatus `json:"status"`
	FetchedPrice           *float64  `json:"fetchedPrice"`
	CalculatedLowestPrice  *float64  `json:"calculatedLowestPrice"`
	CalculatedCurrentPrice *float64  `json:"calculatedCurrentPrice"`
	ErrorMessage           *string   `json:"errorMessage"`
}

// BatchResult is the complete report for one processed upload. Results keep
// the input row order; the counts are always consistent with the list.
type BatchResult struct {
	Results      []ProcessingResult `json:"results"`
	SuccessCount int                `json:"successCount"`
	FailedCount  int                `json:"failedCount"`
}

// Batch is a completed batch retained in the server-side cache so exports can
// be fetched by id without re-posting the result list.
type Batch struct {
	ID        uuid.UUID   `json:"batchId"`
	Result    BatchResult `json:"result"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
