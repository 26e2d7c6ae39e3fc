package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// segmentProfile drives the synthetic dataset: one daily row per
// (product, entity, payment_method) combination with plausible volumes.
type segmentProfile struct {
	Product       string
	Entity        string
	PaymentMethod string
	PriceTier     string
	Anticipation  string
	Settlement    string
	Installments  int
	DailyAmount   [2]float64 // min, max daily amount transacted
	DailyTxns     [2]int     // min, max daily transaction count
	Merchants     [2]int     // min, max daily merchant count
}

var segmentProfiles = []segmentProfile{
	{Product: "pix", Entity: "individual", PaymentMethod: "uninformed", PriceTier: "normal", Anticipation: "Pix", Settlement: "d0", Installments: 0, DailyAmount: [2]float64{400000, 700000}, DailyTxns: [2]int{3000, 5500}, Merchants: [2]int{800, 1200}},
	{Product: "pix", Entity: "business", PaymentMethod: "uninformed", PriceTier: "aggressive", Anticipation: "Pix", Settlement: "d0", Installments: 0, DailyAmount: [2]float64{900000, 1500000}, DailyTxns: [2]int{4000, 7000}, Merchants: [2]int{500, 900}},
	{Product: "pos", Entity: "individual", PaymentMethod: "credit", PriceTier: "normal", Anticipation: "D1Anticipation", Settlement: "d0", Installments: 3, DailyAmount: [2]float64{250000, 450000}, DailyTxns: [2]int{1200, 2200}, Merchants: [2]int{400, 700}},
	{Product: "pos", Entity: "business", PaymentMethod: "credit", PriceTier: "intermediary", Anticipation: "D0/Nitro", Settlement: "nitro", Installments: 6, DailyAmount: [2]float64{600000, 1100000}, DailyTxns: [2]int{1800, 3200}, Merchants: [2]int{350, 600}},
	{Product: "pos", Entity: "business", PaymentMethod: "debit", PriceTier: "normal", Anticipation: "D0/Nitro", Settlement: "nitro", Installments: 0, DailyAmount: [2]float64{300000, 550000}, DailyTxns: [2]int{1500, 2600}, Merchants: [2]int{300, 500}},
	{Product: "tap", Entity: "individual", PaymentMethod: "credit", PriceTier: "normal", Anticipation: "D1Anticipation", Settlement: "d0", Installments: 2, DailyAmount: [2]float64{80000, 160000}, DailyTxns: [2]int{600, 1100}, Merchants: [2]int{250, 450}},
	{Product: "tap", Entity: "individual", PaymentMethod: "debit", PriceTier: "normal", Anticipation: "D1Anticipation", Settlement: "d0", Installments: 0, DailyAmount: [2]float64{50000, 110000}, DailyTxns: [2]int{500, 900}, Merchants: [2]int{200, 400}},
	{Product: "link", Entity: "business", PaymentMethod: "credit", PriceTier: "domination", Anticipation: "D1Anticipation", Settlement: "d0", Installments: 10, DailyAmount: [2]float64{150000, 300000}, DailyTxns: [2]int{300, 650}, Merchants: [2]int{100, 220}},
	{Product: "bank_slip", Entity: "business", PaymentMethod: "uninformed", PriceTier: "normal", Anticipation: "Bank Slip", Settlement: "d0", Installments: 1, DailyAmount: [2]float64{120000, 240000}, DailyTxns: [2]int{200, 400}, Merchants: [2]int{80, 160}},
}

const seedDays = 60

// SeedData populates the transactions table with a deterministic synthetic
// dataset: seedDays of per-segment daily rows with a weekend dip, plus an
// injected pix drop on the most recent day so the anomaly scan has a real
// finding to demo.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lastDay := time.Now().UTC().Truncate(24 * time.Hour)
	firstDay := lastDay.AddDate(0, 0, -(seedDays - 1))

	batch := &pgx.Batch{}
	rows := 0

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		weekendFactor := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendFactor = 0.65
		}

		for _, p := range segmentProfiles {
			amount := p.DailyAmount[0] + rng.Float64()*(p.DailyAmount[1]-p.DailyAmount[0])
			txns := p.DailyTxns[0] + rng.Intn(p.DailyTxns[1]-p.DailyTxns[0]+1)
			merchants := p.Merchants[0] + rng.Intn(p.Merchants[1]-p.Merchants[0]+1)

			amount *= weekendFactor
			txns = int(float64(txns) * weekendFactor)

			// Injected anomaly: pix collapses on the reference day.
			if day.Equal(lastDay) && p.Product == "pix" {
				amount *= 0.35
				txns = int(float64(txns) * 0.5)
			}

			amount = math.Round(amount*100) / 100

			batch.Queue(
				`INSERT INTO transactions (day, entity, product, price_tier, anticipation_method,
					settlement_speed, payment_method, installments,
					amount_transacted, quantity_transactions, quantity_of_merchants)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				day, p.Entity, p.Product, p.PriceTier, p.Anticipation,
				p.Settlement, p.PaymentMethod, p.Installments,
				amount, txns, merchants,
			)
			rows++
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < rows; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert seed row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close seed batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Int("rows", rows).Int("days", seedDays).Msg("seeded transactions")
	return nil
}
