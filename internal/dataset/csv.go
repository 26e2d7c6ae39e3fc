package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"txninsights/internal/model"
)

var csvColumns = []string{
	"day",
	"entity",
	"product",
	"price_tier",
	"anticipation_method",
	"settlement_speed",
	"payment_method",
	"installments",
	"amount_transacted",
	"quantity_transactions",
	"quantity_of_merchants",
}

type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Load(_ context.Context) ([]model.TransactionRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range csvColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", name)
		}
	}

	var records []model.TransactionRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	log.Info().Str("path", s.Path).Int("rows", len(records)).Msg("dataset loaded from csv")
	return records, nil
}

func parseRow(row []string, col map[string]int) (model.TransactionRecord, error) {
	var rec model.TransactionRecord

	day, err := time.Parse(model.DayFormat, row[col["day"]])
	if err != nil {
		return rec, fmt.Errorf("parse day: %w", err)
	}

	installments, err := strconv.Atoi(row[col["installments"]])
	if err != nil {
		return rec, fmt.Errorf("parse installments: %w", err)
	}
	amount, err := strconv.ParseFloat(row[col["amount_transacted"]], 64)
	if err != nil {
		return rec, fmt.Errorf("parse amount_transacted: %w", err)
	}
	qtyTxn, err := strconv.Atoi(row[col["quantity_transactions"]])
	if err != nil {
		return rec, fmt.Errorf("parse quantity_transactions: %w", err)
	}
	qtyMerchants, err := strconv.Atoi(row[col["quantity_of_merchants"]])
	if err != nil {
		return rec, fmt.Errorf("parse quantity_of_merchants: %w", err)
	}

	if amount < 0 || qtyTxn < 0 || qtyMerchants < 0 || installments < 0 {
		return rec, fmt.Errorf("negative quantity or amount")
	}

	rec = model.TransactionRecord{
		Day:                  day,
		Entity:               row[col["entity"]],
		Product:              row[col["product"]],
		PriceTier:            row[col["price_tier"]],
		AnticipationMethod:   row[col["anticipation_method"]],
		SettlementSpeed:      row[col["settlement_speed"]],
		PaymentMethod:        row[col["payment_method"]],
		Installments:         installments,
		AmountTransacted:     amount,
		QuantityTransactions: qtyTxn,
		QuantityOfMerchants:  qtyMerchants,
	}
	return rec, nil
}
