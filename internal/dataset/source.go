// Package dataset loads transaction records from the configured source. The
// loader validates and type-coerces here so the store and engines can assume
// well-formed rows.
package dataset

import (
	"context"

	"txninsights/internal/model"
)

type Source interface {
	Load(ctx context.Context) ([]model.TransactionRecord, error)
}
