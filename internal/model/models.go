package model

import (
	"fmt"
	"strconv"
	"time"
)

const DayFormat = "2006-01-02"

// TransactionRecord is one row of the merchant transaction dataset. Rows are
// pre-aggregated per day and segment combination, so the quantity fields
// carry totals for that combination rather than a single payment.
type TransactionRecord struct {
	Day                  time.Time `json:"day"`
	DayOfWeek            string    `json:"day_of_week"`
	Entity               string    `json:"entity"`
	Product              string    `json:"product"`
	PriceTier            string    `json:"price_tier"`
	AnticipationMethod   string    `json:"anticipation_method"`
	SettlementSpeed      string    `json:"settlement_speed"`
	PaymentMethod        string    `json:"payment_method"`
	Installments         int       `json:"installments"`
	AmountTransacted     float64   `json:"amount_transacted"`
	QuantityTransactions int       `json:"quantity_transactions"`
	QuantityOfMerchants  int       `json:"quantity_of_merchants"`
}

// Dimensions recognized for filtering and grouping. Value sets of the
// open-vocabulary dimensions (product, anticipation_method, ...) are whatever
// the loaded dataset contains, never a fixed enumeration.
var Dimensions = []string{
	"day",
	"day_of_week",
	"entity",
	"product",
	"price_tier",
	"anticipation_method",
	"settlement_speed",
	"payment_method",
	"installments",
}

func IsDimension(name string) bool {
	for _, d := range Dimensions {
		if d == name {
			return true
		}
	}
	return false
}

// DimensionValue returns the record's value for a named dimension as a plain
// categorical string. ok is false for unknown dimension names.
func (r *TransactionRecord) DimensionValue(name string) (string, bool) {
	switch name {
	case "day":
		return r.Day.Format(DayFormat), true
	case "day_of_week":
		return r.DayOfWeek, true
	case "entity":
		return r.Entity, true
	case "product":
		return r.Product, true
	case "price_tier":
		return r.PriceTier, true
	case "anticipation_method":
		return r.AnticipationMethod, true
	case "settlement_speed":
		return r.SettlementSpeed, true
	case "payment_method":
		return r.PaymentMethod, true
	case "installments":
		return strconv.Itoa(r.Installments), true
	default:
		return "", false
	}
}

// ValidationError rejects a malformed or unrecognized query specification
// field. It is surfaced to the caller verbatim, never silently repaired.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
