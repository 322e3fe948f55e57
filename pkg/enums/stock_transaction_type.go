package enums

import "fmt"

// StockTransactionType classifies append-only stock log entries.
type StockTransactionType string

const (
	StockTransactionReserve StockTransactionType = "RESERVE"
	StockTransactionDeduct  StockTransactionType = "DEDUCT"
	StockTransactionRelease StockTransactionType = "RELEASE"
	StockTransactionAdjust  StockTransactionType = "ADJUST"
)

var validStockTransactionTypes = []StockTransactionType{
	StockTransactionReserve,
	StockTransactionDeduct,
	StockTransactionRelease,
	StockTransactionAdjust,
}

// IsValid reports whether the value matches the canonical transaction enum.
func (t StockTransactionType) IsValid() bool {
	for _, candidate := range validStockTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockTransactionType converts raw input into StockTransactionType.
func ParseStockTransactionType(value string) (StockTransactionType, error) {
	for _, candidate := range validStockTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock transaction type %q", value)
}
