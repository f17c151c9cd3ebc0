package service

import (
	"sort"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type groupAccumulator struct {
	count  int
	views  int64
	clicks int64
	ctrSum float64
	rev    float64
}

func (a *groupAccumulator) add(p entity.Placement) {
	a.count++
	a.views += p.Views
	a.clicks += p.Clicks
	a.ctrSum += p.CTR
	a.rev += p.Revenue
}

func (a *groupAccumulator) stats(key string) entity.GroupStats {
	avg := 0.0
	if a.count > 0 {
		avg = a.ctrSum / float64(a.count)
	}
	return entity.GroupStats{
		Key:         key,
		Count:       a.count,
		TotalViews:  a.views,
		TotalClicks: a.clicks,
		AvgCTR:      avg,
		Revenue:     a.rev,
	}
}

// Aggregate folds a set of placements into global totals and breakdowns
// by status, device and category. The average CTR of a group is the
// arithmetic mean of per-unit CTR values, not clicks/views recomputed
// across the group.
func Aggregate(units []entity.Placement) entity.PlacementAnalytics {
	total := groupAccumulator{}
	byStatus := make(map[string]*groupAccumulator)
	byDevice := make(map[string]*groupAccumulator)
	byCategory := make(map[string]*groupAccumulator)

	accumulate := func(m map[string]*groupAccumulator, key string, p entity.Placement) {
		acc, ok := m[key]
		if !ok {
			acc = &groupAccumulator{}
			m[key] = acc
		}
		acc.add(p)
	}

	for _, p := range units {
		if p.IsDeleted {
			continue
		}
		total.add(p)
		accumulate(byStatus, string(p.Status), p)
		accumulate(byDevice, string(p.Device), p)
		accumulate(byCategory, p.Category, p)
	}

	return entity.PlacementAnalytics{
		TotalUnits:   total.count,
		TotalViews:   total.views,
		TotalClicks:  total.clicks,
		AvgCTR:       total.stats("").AvgCTR,
		TotalRevenue: total.rev,
		ByStatus:     flatten(byStatus),
		ByDevice:     flatten(byDevice),
		ByCategory:   flatten(byCategory),
	}
}

func flatten(m map[string]*groupAccumulator) []entity.GroupStats {
	out := make([]entity.GroupStats, 0, len(m))
	for key, acc := range m {
		out = append(out, acc.stats(key))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
