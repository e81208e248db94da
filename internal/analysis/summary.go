package analysis

import (
	"math"
	"sort"
	"time"

	"site-autobidder/internal/model"
)

// DaySummary is a day-level digest of a prediction, used by the reporting
// API and the CLI output. Net-energy stats are computed over the tradable
// 48 slots only.
type DaySummary struct {
	StartUTC time.Time
	EndUTC   time.Time

	Slots int

	MinNetKW  float64
	MaxNetKW  float64
	MeanNetKW float64
	P05NetKW  float64
	P95NetKW  float64

	SurplusSlots int
	DeficitSlots int

	TotalSolarKWh  float64
	TotalWindKWh   float64
	TotalDemandKWh float64

	MeanPriceMWh float64
}

// Summarize computes the digest for one prediction.
func Summarize(p *model.Prediction) DaySummary {
	s := DaySummary{}
	n := p.SlotCount()
	if n == 0 {
		return s
	}
	s.Slots = n
	s.StartUTC = p.Times[0]
	s.EndUTC = p.Times[n-1].Add(30 * time.Minute)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := p.Net[i]
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if v >= 0 {
			s.SurplusSlots++
		} else {
			s.DeficitSlots++
		}
		// kW over a half-hour slot -> kWh.
		s.TotalSolarKWh += p.Solar[i] * 0.5
		s.TotalWindKWh += p.Wind[i] * 0.5
		s.TotalDemandKWh += p.Demand[i] * 0.5
	}
	sort.Float64s(vals)
	s.MinNetKW = minv
	s.MaxNetKW = maxv
	s.MeanNetKW = sum / float64(n)
	s.P05NetKW = percentileSorted(vals, 0.05)
	s.P95NetKW = percentileSorted(vals, 0.95)

	if len(p.Prices) > 0 {
		total := 0.0
		for _, v := range p.Prices {
			total += v
		}
		s.MeanPriceMWh = total / float64(len(p.Prices))
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
