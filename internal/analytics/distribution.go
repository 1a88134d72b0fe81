package analytics

import (
	"math"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// Default histogram resolutions
const (
	DefaultPLBins    = 80
	DefaultCountBins = 20
)

// Bin is one equal-width histogram bucket, [Lower, Upper)
// except for the last bin which also includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets values into at most bins equal-width bins
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return []Bin{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// DailyPLDistribution buckets daily P/L as a percentage of the starting fund
func DailyPLDistribution(series models.DailySeries, bins int) []Bin {
	if !series.HasFund() {
		return []Bin{}
	}
	values := make([]float64, len(series.Rows))
	for i, row := range series.Rows {
		values[i] = row.DailyPL.InexactFloat64() / series.StartingFund * 100
	}
	return Histogram(values, bins)
}

// DailyCountDistribution buckets the number of trades closed per day
func DailyCountDistribution(series models.DailySeries, bins int) []Bin {
	values := make([]float64, len(series.Rows))
	for i, row := range series.Rows {
		values[i] = float64(row.DailyCount)
	}
	return Histogram(values, bins)
}
