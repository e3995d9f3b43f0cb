package services

import "movequote/catalog"

// Aggregate sums volume (m³) and weight (kg) of the quantities that belong
// to moveType. Waste sections, unknown items and counters of other move
// types are ignored.
func Aggregate(cat *catalog.Catalog, quantities map[QuantityKey]int, moveType string) (volume, weight float64) {
	mt, ok := cat.MoveType(moveType)
	if !ok || len(quantities) == 0 {
		return 0, 0
	}

	for _, section := range mt.Sections {
		if section.Waste {
			continue
		}
		for _, id := range section.Items {
			qty := quantities[QuantityKey{MoveType: moveType, Section: section.ID, Item: id}]
			if qty <= 0 {
				continue
			}
			item, ok := cat.Item(id)
			if !ok {
				continue
			}
			volume += float64(qty) * item.Volume
			weight += float64(qty) * item.Weight
		}
	}
	return volume, weight
}
