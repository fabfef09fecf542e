package portfolio

import (
	"math"
	"sort"
	"time"

	"PortfolioSentinel/internal/model"
)

// combine outer-joins the scaled close series of every asset on timestamp,
// forward-fills each one and sums the defined values per timestamp.
// Assets without history are skipped.
func combine(results []asset) (model.CombinedSeries, bool) {
	var scaled [][]model.ValuePoint
	seen := make(map[time.Time]struct{})
	for _, r := range results {
		if r.series.Empty() {
			continue
		}
		points := make([]model.ValuePoint, len(r.series.Bars))
		for i, b := range r.series.Bars {
			points[i] = model.ValuePoint{Time: b.Time, Value: b.Close * r.holding.Quantity * r.factor}
			seen[b.Time] = struct{}{}
		}
		scaled = append(scaled, points)
	}
	if len(scaled) == 0 {
		return nil, false
	}

	times := make([]time.Time, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	cursor := make([]int, len(scaled))
	last := make([]float64, len(scaled))
	for i := range last {
		last[i] = math.NaN()
	}

	out := make(model.CombinedSeries, len(times))
	row := make([]float64, len(scaled))
	for ti, t := range times {
		for k, points := range scaled {
			for cursor[k] < len(points) && !points[cursor[k]].Time.After(t) {
				if v := points[cursor[k]].Value; !math.IsNaN(v) {
					last[k] = v
				}
				cursor[k]++
			}
			row[k] = last[k]
		}
		out[ti] = model.ValuePoint{Time: t, Value: SumDefined(row)}
	}
	return out, true
}
