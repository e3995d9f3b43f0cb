package services

import (
	"slices"

	"movequote/catalog"
)

// maxBasketPasses bounds the re-resolution loop in Recompute: basket
// defaults add volume, which can move the recommendation up a class.
const maxBasketPasses = 3

// Result is everything the form shows after a change.
type Result struct {
	State          QuoteState
	Recommendation Recommendation
	Quote          Quote
}

// ResolveVehicle derives the vehicle used for pricing. In auto mode it is
// the recommendation when that names a vehicle priced for the move type;
// in manual mode it is the manual choice when priced. Otherwise "".
func ResolveVehicle(cat *catalog.Catalog, moveType string, mode VehicleMode, manual string, rec Recommendation) string {
	available := cat.AvailableVehicles(moveType)
	if mode == VehicleModeManual {
		if slices.Contains(available, manual) {
			return manual
		}
		return ""
	}
	if rec.Vehicle == "" || rec.Overflow || IsOverflowMarker(rec.Vehicle) {
		return ""
	}
	if slices.Contains(available, rec.Vehicle) {
		return rec.Vehicle
	}
	return ""
}

// Recompute derives totals, recommendation, resolved vehicle and price for
// next. prev is the state as last shown; when the resolved vehicle differs
// from prev.FinalVehicle the vehicle's basket defaults replace the packing
// quantities. Neither argument is modified.
func Recompute(cat *catalog.Catalog, prev, next QuoteState) Result {
	s := next.Clone()
	s.normalize()

	applied := prev.FinalVehicle
	var rec Recommendation
	var final string
	for pass := 0; ; pass++ {
		s.TotalVolume, s.TotalWeight = Aggregate(cat, s.Quantities, s.MoveType)
		rec = Recommend(cat, s.TotalVolume, s.TotalWeight)
		final = ResolveVehicle(cat, s.MoveType, s.VehicleMode, s.ManualVehicle, rec)
		if final == applied || final == "" || pass >= maxBasketPasses {
			break
		}
		applyBasketDefaults(cat, &s, final)
		applied = final
	}

	s.RecommendedVehicle = rec.Vehicle
	s.FinalVehicle = final

	if price, ok := cat.VehiclePrice(s.MoveType, final); !ok || price.Housewife == 0 {
		s.RemoveBaseHelper = false
	}

	return Result{
		State:          s,
		Recommendation: rec,
		Quote:          Calculate(cat, s),
	}
}

// applyBasketDefaults writes the vehicle's default packing counts into the
// packing section of the current move type. Items without a default keep
// their counts.
func applyBasketDefaults(cat *catalog.Catalog, s *QuoteState, vehicle string) {
	section, ok := cat.PackingSection(s.MoveType)
	if !ok {
		return
	}
	defaults := cat.BasketDefaultsFor(vehicle)
	for _, id := range section.Items {
		n, ok := defaults[id]
		if !ok {
			continue
		}
		key := QuantityKey{MoveType: s.MoveType, Section: section.ID, Item: id}
		if n > 0 {
			s.Quantities[key] = n
		} else {
			delete(s.Quantities, key)
		}
	}
}
