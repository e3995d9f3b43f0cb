package services

import (
	"strings"

	"movequote/catalog"
)

// OverflowTag marks a recommendation that exceeds the largest vehicle.
const OverflowTag = "초과"

// Recommendation is the smallest vehicle that fits a load. When nothing
// fits, Vehicle holds the overflow marker and Overflow is set.
type Recommendation struct {
	Vehicle          string
	Overflow         bool
	RemainingPercent float64
}

// None reports that no load was selected.
func (r Recommendation) None() bool {
	return r.Vehicle == ""
}

// IsOverflowMarker reports whether a recommended vehicle name is the
// overflow marker rather than a real vehicle.
func IsOverflowMarker(name string) bool {
	return strings.Contains(name, OverflowTag)
}

// Recommend picks the first vehicle in capacity order whose volume and
// weight capacities both cover the load.
func Recommend(cat *catalog.Catalog, volume, weight float64) Recommendation {
	if volume <= 0 && weight <= 0 {
		return Recommendation{}
	}

	vehicles := cat.VehiclesByCapacity()
	for _, v := range vehicles {
		if v.Capacity >= volume && v.WeightCapacity >= weight {
			remaining := 0.0
			if v.Capacity > 0 {
				remaining = (v.Capacity - volume) / v.Capacity * 100
			}
			if remaining < 0 {
				remaining = 0
			}
			return Recommendation{Vehicle: v.Name, RemainingPercent: remaining}
		}
	}

	if len(vehicles) == 0 {
		return Recommendation{Vehicle: OverflowTag, Overflow: true}
	}
	largest := vehicles[len(vehicles)-1]
	return Recommendation{Vehicle: largest.Name + " " + OverflowTag, Overflow: true}
}
