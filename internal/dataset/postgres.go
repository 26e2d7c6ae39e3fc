package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"txninsights/internal/model"
)

// PostgresSource reads the same dataset shape from a transactions table.
// The table is only ever read; the engines never write transaction data.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Load(ctx context.Context) ([]model.TransactionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT day, entity, product, price_tier, anticipation_method,
			settlement_speed, payment_method, installments,
			amount_transacted, quantity_transactions, quantity_of_merchants
		FROM transactions
		ORDER BY day, product, entity, payment_method`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []model.TransactionRecord
	for rows.Next() {
		var rec model.TransactionRecord
		if err := rows.Scan(
			&rec.Day, &rec.Entity, &rec.Product, &rec.PriceTier,
			&rec.AnticipationMethod, &rec.SettlementSpeed, &rec.PaymentMethod,
			&rec.Installments, &rec.AmountTransacted,
			&rec.QuantityTransactions, &rec.QuantityOfMerchants,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	log.Info().Int("rows", len(records)).Msg("dataset loaded from postgres")
	return records, nil
}
