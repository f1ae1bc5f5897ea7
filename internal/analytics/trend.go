package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

// WeeklyCost is the summed total cost of one ISO year-week bucket.
type WeeklyCost struct {
	Week      string          `json:"week"` // e.g. "2024-W05"
	TotalCost decimal.Decimal `json:"total_cost"`
}

// TrendReport describes the weekly cost series: dispersion statistics and an
// ordinary-least-squares fit of weekly cost against week index 0,1,2,...
// Statistics are float64; they describe the series, they are not money.
type TrendReport struct {
	Weeks []WeeklyCost `json:"weeks"`

	WeeklyMean   float64 `json:"weekly_mean"`
	WeeklyStdDev float64 `json:"weekly_std_dev"`
	WeeklyCV     float64 `json:"weekly_cv"`

	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// weeklyTrend buckets records by ISO year-week and fits the trend. With
// fewer than two distinct dated weeks it returns nil and the report omits
// the trend block.
func weeklyTrend(records []domain.EnrichedRecord) *TrendReport {
	buckets := make(map[string]decimal.Decimal)
	for i := range records {
		rec := &records[i]
		if !rec.HasDate() {
			continue
		}
		year, week := rec.TransactionDate.ISOWeek()
		key := fmt.Sprintf("%04d-W%02d", year, week)
		buckets[key] = buckets[key].Add(rec.TotalCost)
	}
	if len(buckets) < 2 {
		return nil
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys) // zero-padded year-week keys sort chronologically

	trend := &TrendReport{Weeks: make([]WeeklyCost, len(keys))}
	series := make([]float64, len(keys))
	for i, k := range keys {
		trend.Weeks[i] = WeeklyCost{Week: k, TotalCost: buckets[k]}
		series[i] = buckets[k].InexactFloat64()
	}

	trend.WeeklyMean, trend.WeeklyStdDev = meanStdDev(series)
	if trend.WeeklyMean != 0 {
		trend.WeeklyCV = trend.WeeklyStdDev / trend.WeeklyMean
	}
	trend.Slope, trend.Intercept, trend.RSquared = linearRegression(series)
	return trend
}

// meanStdDev returns the mean and sample standard deviation of the series.
func meanStdDev(series []float64) (mean, stddev float64) {
	n := float64(len(series))
	for _, v := range series {
		mean += v
	}
	mean /= n

	if len(series) < 2 {
		return mean, 0
	}
	var sumSq float64
	for _, v := range series {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / (n - 1))
}

// linearRegression fits y = intercept + slope*x over x = 0,1,2,... and
// returns the coefficient of determination. A flat series fits itself
// exactly, so R² is 1 when the total sum of squares is zero.
func linearRegression(series []float64) (slope, intercept, r2 float64) {
	n := float64(len(series))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 1
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range series {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
