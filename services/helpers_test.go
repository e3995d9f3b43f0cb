package services

import (
	"bytes"
	"testing"
	"time"

	"movequote/catalog"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	return cat
}

var testToday = time.Date(2026, time.March, 14, 0, 0, 0, 0, time.FixedZone("KST", 9*60*60))

func homeKey(section, item string) QuantityKey {
	return QuantityKey{MoveType: "home", Section: section, Item: item}
}

// pricedState is a home move on a 5톤 truck with every optional charge off
// and elevators at both ends.
func pricedState(cat *catalog.Catalog) QuoteState {
	s := NewQuoteState(cat, testToday)
	s.FinalVehicle = "5톤"
	s.VehicleMode = VehicleModeManual
	s.ManualVehicle = "5톤"
	s.FromMethod = "elevator"
	s.ToMethod = "elevator"
	return s
}

func findLine(q Quote, label string) (CostLineItem, bool) {
	for _, it := range q.Items {
		if it.Label == label {
			return it, true
		}
	}
	return CostLineItem{}, false
}
