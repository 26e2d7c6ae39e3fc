package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"txninsights/internal/metric"
	"txninsights/internal/model"
	"txninsights/internal/store"
)

// Dimensions monitored by the daily anomaly scan.
var MonitoredDimensions = []string{"product", "entity", "payment_method"}

const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"

	InsightLargestDrop     = "largest_drop"
	InsightMainContributor = "main_contributor"
	InsightHighestGrowth   = "highest_growth"

	DefaultVariationThresholdPct = 15
	DefaultZScoreThreshold       = 2
)

type Alert struct {
	AlertID          string        `json:"alert_id"`
	SegmentDimension string        `json:"segment_dimension"`
	SegmentValue     string        `json:"segment_value"`
	Metric           metric.Metric `json:"metric"`
	CurrentValue     float64       `json:"current_value"`
	VariationPct     *float64      `json:"variation_pct"`
	ZScore           *float64      `json:"z_score"`
	Severity         string        `json:"severity"`
	Message          string        `json:"message"`
}

type TopInsight struct {
	Kind             string        `json:"kind"`
	SegmentDimension string        `json:"segment_dimension"`
	SegmentValue     string        `json:"segment_value"`
	Metric           metric.Metric `json:"metric"`
	MetricValue      float64       `json:"metric_value"`
	VariationPct     *float64      `json:"variation_pct"`
}

type DailySummary struct {
	Date         string        `json:"date"`
	Metric       metric.Metric `json:"metric"`
	MetricLabel  string        `json:"metric_label"`
	ValueCurrent float64       `json:"value_current"`
	VarD1        *float64      `json:"var_d1"`
	VarD7        *float64      `json:"var_d7"`
	VarD30       *float64      `json:"var_d30"`
}

// AlertService flags segments whose current-day metric deviates from its
// recent baseline, and ranks segments into top insights. Given identical
// store contents and configuration its output is byte-identical: dimensions
// are walked in declaration order, segment values in lexicographic order,
// and every tie-break is lexicographic.
type AlertService struct {
	baseline     *BaselineService
	varThreshold float64
	zThreshold   float64
}

func NewAlertService(baseline *BaselineService, varThresholdPct, zThreshold float64) *AlertService {
	if varThresholdPct <= 0 {
		varThresholdPct = DefaultVariationThresholdPct
	}
	if zThreshold <= 0 {
		zThreshold = DefaultZScoreThreshold
	}
	return &AlertService{baseline: baseline, varThreshold: varThresholdPct, zThreshold: zThreshold}
}

// DailySummary reports the store-wide metric at the reference day with its
// D-1/D-7/D-30 variations.
func (s *AlertService) DailySummary(m metric.Metric, refDay time.Time, st *store.Store) DailySummary {
	sample := s.baseline.Variation(m, refDay, "", "", st)
	return DailySummary{
		Date:         sample.ReferenceDay,
		Metric:       m,
		MetricLabel:  m.DisplayName(),
		ValueCurrent: sample.CurrentValue,
		VarD1:        sample.VarD1,
		VarD7:        sample.VarD7,
		VarD30:       sample.VarD30,
	}
}

// Scan evaluates every distinct value of every monitored dimension for one
// metric. Dimensions are scanned concurrently; the combined result keeps the
// fixed dimension order so concurrency never reorders output.
func (s *AlertService) Scan(ctx context.Context, m metric.Metric, refDay time.Time, st *store.Store) ([]Alert, error) {
	g, gctx := errgroup.WithContext(ctx)

	perDim := make([][]Alert, len(MonitoredDimensions))
	for i, dim := range MonitoredDimensions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perDim[i] = s.scanDimension(m, refDay, dim, st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, dimAlerts := range perDim {
		alerts = append(alerts, dimAlerts...)
	}
	return alerts, nil
}

func (s *AlertService) scanDimension(m metric.Metric, refDay time.Time, dim string, st *store.Store) []Alert {
	var alerts []Alert
	for _, value := range st.DistinctValues(dim) {
		sample := s.baseline.Variation(m, refDay, dim, value, st)
		if alert, ok := s.evaluate(sample, st); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// evaluate applies the threshold rules to one segment sample. A zero-variance
// baseline yields no z-score and is treated as not anomalous.
func (s *AlertService) evaluate(sample BaselineSample, st *store.Store) (Alert, bool) {
	varHit := sample.VarVsBaseline != nil && math.Abs(*sample.VarVsBaseline) >= s.varThreshold
	zHit := sample.ZScore != nil && math.Abs(*sample.ZScore) >= s.zThreshold
	if !varHit && !zHit {
		return Alert{}, false
	}

	negative := false
	if sample.VarVsBaseline != nil {
		negative = *sample.VarVsBaseline < 0
	} else if sample.ZScore != nil {
		negative = *sample.ZScore < 0
	}

	// Growth is reported but is not operationally actionable the way a drop
	// is, hence the severity asymmetry.
	severity := SeverityInfo
	if negative {
		severity = SeverityWarning
	}

	return Alert{
		AlertID:          hashID(string(sample.Metric), sample.SegmentDimension, sample.SegmentValue, sample.ReferenceDay),
		SegmentDimension: sample.SegmentDimension,
		SegmentValue:     sample.SegmentValue,
		Metric:           sample.Metric,
		CurrentValue:     sample.CurrentValue,
		VariationPct:     sample.VarVsBaseline,
		ZScore:           sample.ZScore,
		Severity:         severity,
		Message:          s.message(sample, negative, st),
	}, true
}

// message renders the fixed alert template, e.g.
//
//	TPV of pix fell -18.0% vs 14-day average and -12.0% vs D-7; largest drop in payment_method = credit
func (s *AlertService) message(sample BaselineSample, negative bool, st *store.Store) string {
	verb := "rose"
	if negative {
		verb = "fell"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s of %s %s", sample.Metric.DisplayName(), sample.SegmentValue, verb)

	if sample.VarVsBaseline != nil {
		fmt.Fprintf(&b, " %+.1f%% vs %d-day average", *sample.VarVsBaseline, sample.BaselineWindowDays)
	} else if sample.ZScore != nil {
		fmt.Fprintf(&b, " %.1f standard deviations vs %d-day average", *sample.ZScore, sample.BaselineWindowDays)
	}

	if sample.VarD7 != nil {
		fmt.Fprintf(&b, " and %+.1f%% vs D-7", *sample.VarD7)
	}

	if sample.SegmentDimension != "payment_method" {
		if pm, change, ok := s.topPaymentMethodChange(sample, st); ok {
			direction := "rise"
			if change < 0 {
				direction = "drop"
			}
			fmt.Fprintf(&b, "; largest %s in payment_method = %s", direction, pm)
		}
	}

	return b.String()
}

// topPaymentMethodChange finds the payment-method sub-segment with the
// largest absolute change vs its own baseline mean, within the alerted
// segment and window. Ties go to the lexicographically smaller value.
func (s *AlertService) topPaymentMethodChange(sample BaselineSample, st *store.Store) (string, float64, bool) {
	refDay, err := time.Parse(model.DayFormat, sample.ReferenceDay)
	if err != nil {
		return "", 0, false
	}

	var (
		bestPM     string
		bestChange float64
		found      bool
	)
	for _, pm := range st.DistinctValues("payment_method") {
		filters := map[string][]string{"payment_method": {pm}}
		if sample.SegmentDimension != "" {
			filters[sample.SegmentDimension] = []string{sample.SegmentValue}
		}

		current, currentOK := dayValueFiltered(sample.Metric, refDay, filters, st)
		var daily []float64
		for offset := sample.BaselineWindowDays; offset >= 1; offset-- {
			if v, ok := dayValueFiltered(sample.Metric, refDay.AddDate(0, 0, -offset), filters, st); ok {
				daily = append(daily, v)
			}
		}
		if len(daily) < 2 {
			continue
		}
		if !currentOK {
			current = 0
		}

		mean, _ := meanStddev(daily)
		change := current - mean
		if !found || math.Abs(change) > math.Abs(bestChange) {
			bestPM, bestChange, found = pm, change, true
		}
	}
	return bestPM, bestChange, found
}

// TopInsights ranks segments by exact-offset variation for a requested
// period. An empty dimension scans all monitored dimensions. Categories with
// no defined variation are omitted rather than defaulting arbitrarily.
func (s *AlertService) TopInsights(m metric.Metric, refDay time.Time, period string, dimension string, st *store.Store) ([]TopInsight, error) {
	offsets := map[string]int{"d1": 1, "d7": 7, "d30": 30}
	daysBack, ok := offsets[period]
	if !ok {
		return nil, model.Invalid("period", "must be one of d1, d7, d30, got '%s'", period)
	}

	dims := MonitoredDimensions
	if dimension != "" {
		if !model.IsDimension(dimension) {
			return nil, model.Invalid("dimension", "unknown dimension '%s'", dimension)
		}
		dims = []string{dimension}
	}

	refDay = refDay.Truncate(24 * time.Hour)
	comparisonDay := refDay.AddDate(0, 0, -daysBack)

	type candidate struct {
		dim, value string
		current    float64
		variation  *float64
	}

	var candidates []candidate
	for _, dim := range dims {
		for _, value := range st.DistinctValues(dim) {
			filters := map[string][]string{dim: {value}}
			current, currentOK := dayValueFiltered(m, refDay, filters, st)
			if !currentOK {
				continue
			}
			past, pastOK := dayValueFiltered(m, comparisonDay, filters, st)
			candidates = append(candidates, candidate{
				dim:       dim,
				value:     value,
				current:   current,
				variation: variationPct(current, past, pastOK),
			})
		}
	}

	var insights []TopInsight

	var drop, growth, contributor *candidate
	for i := range candidates {
		c := &candidates[i]
		if c.variation != nil {
			if drop == nil || *c.variation < *drop.variation {
				drop = c
			}
			if growth == nil || *c.variation > *growth.variation {
				growth = c
			}
		}
		if contributor == nil || math.Abs(c.current) > math.Abs(contributor.current) {
			contributor = c
		}
	}

	if drop != nil && *drop.variation < 0 {
		insights = append(insights, TopInsight{
			Kind:             InsightLargestDrop,
			SegmentDimension: drop.dim,
			SegmentValue:     drop.value,
			Metric:           m,
			MetricValue:      drop.current,
			VariationPct:     drop.variation,
		})
	}
	if contributor != nil {
		insights = append(insights, TopInsight{
			Kind:             InsightMainContributor,
			SegmentDimension: contributor.dim,
			SegmentValue:     contributor.value,
			Metric:           m,
			MetricValue:      contributor.current,
			VariationPct:     contributor.variation,
		})
	}
	if growth != nil && *growth.variation > 0 {
		insights = append(insights, TopInsight{
			Kind:             InsightHighestGrowth,
			SegmentDimension: growth.dim,
			SegmentValue:     growth.value,
			Metric:           m,
			MetricValue:      growth.current,
			VariationPct:     growth.variation,
		})
	}

	return insights, nil
}

func dayValueFiltered(m metric.Metric, day time.Time, filters map[string][]string, st *store.Store) (float64, bool) {
	rows := st.DayRows(day)
	matched := rows[:0]
	for i := range rows {
		if store.MatchesFilters(&rows[i], filters) {
			matched = append(matched, rows[i])
		}
	}
	if len(matched) == 0 {
		return 0, false
	}
	return metric.Compute(m, matched), true
}

func hashID(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
