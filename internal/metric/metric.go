// Package metric holds the pure KPI calculators. Every function is
// deterministic and total over any row subset, including the empty one.
package metric

import "txninsights/internal/model"

type Metric string

const (
	TPV              Metric = "tpv"
	AverageTicket    Metric = "average_ticket"
	TransactionCount Metric = "transaction_count"
	MerchantCount    Metric = "merchant_count"
)

var All = []Metric{TPV, AverageTicket, TransactionCount, MerchantCount}

// aliases accepted from the translation step; the original vocabulary used
// "transactions" and "merchants" for the count metrics.
var aliases = map[string]Metric{
	"transactions": TransactionCount,
	"merchants":    MerchantCount,
}

// Parse resolves a metric identifier, accepting legacy aliases.
func Parse(s string) (Metric, bool) {
	for _, m := range All {
		if string(m) == s {
			return m, true
		}
	}
	if m, ok := aliases[s]; ok {
		return m, true
	}
	return "", false
}

func (m Metric) DisplayName() string {
	switch m {
	case TPV:
		return "TPV"
	case AverageTicket:
		return "Average Ticket"
	case TransactionCount:
		return "Total Transactions"
	case MerchantCount:
		return "Total Merchants"
	}
	return string(m)
}

// Compute evaluates the metric over a row subset.
//
// AverageTicket is a ratio of sums over the whole subset, never a mean of
// per-row or per-group ratios: merging unevenly sized groups through row
// averages would weight a 1-transaction row the same as a 10,000-transaction
// row. A subset with zero transactions yields 0, not a division error.
func Compute(m Metric, rows []model.TransactionRecord) float64 {
	switch m {
	case TPV:
		var sum float64
		for i := range rows {
			sum += rows[i].AmountTransacted
		}
		return sum
	case AverageTicket:
		var amount float64
		var qty int
		for i := range rows {
			amount += rows[i].AmountTransacted
			qty += rows[i].QuantityTransactions
		}
		if qty == 0 {
			return 0
		}
		return amount / float64(qty)
	case TransactionCount:
		var qty int
		for i := range rows {
			qty += rows[i].QuantityTransactions
		}
		return float64(qty)
	case MerchantCount:
		var merchants int
		for i := range rows {
			merchants += rows[i].QuantityOfMerchants
		}
		return float64(merchants)
	}
	return 0
}
