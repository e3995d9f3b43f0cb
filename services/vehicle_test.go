package services

import (
	"reflect"
	"testing"
)

func TestResolveVehicle(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name     string
		moveType string
		mode     VehicleMode
		manual   string
		rec      Recommendation
		want     string
	}{
		{"auto uses recommendation", "home", VehicleModeAuto, "", Recommendation{Vehicle: "2.5톤"}, "2.5톤"},
		{"auto ignores manual", "home", VehicleModeAuto, "10톤", Recommendation{Vehicle: "1톤"}, "1톤"},
		{"auto overflow", "home", VehicleModeAuto, "", Recommendation{Vehicle: "20톤 초과", Overflow: true}, ""},
		{"auto nothing selected", "home", VehicleModeAuto, "", Recommendation{}, ""},
		{"auto recommendation not priced", "office", VehicleModeAuto, "", Recommendation{Vehicle: "15톤"}, ""},
		{"manual priced", "office", VehicleModeManual, "6톤", Recommendation{Vehicle: "1톤"}, "6톤"},
		{"manual not priced", "office", VehicleModeManual, "20톤", Recommendation{Vehicle: "1톤"}, ""},
		{"manual empty", "home", VehicleModeManual, "", Recommendation{Vehicle: "1톤"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVehicle(cat, tt.moveType, tt.mode, tt.manual, tt.rec)
			if got != tt.want {
				t.Errorf("ResolveVehicle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecompute_ScenarioA(t *testing.T) {
	cat := testCatalog(t)
	prev := NewQuoteState(cat, testToday)
	next := prev.WithQuantity(homeKey("furniture", "wardrobe"), 2)

	res := Recompute(cat, prev, next)

	if res.State.FinalVehicle != "1톤" {
		t.Fatalf("FinalVehicle = %q, want 1톤", res.State.FinalVehicle)
	}
	// 1톤 basket defaults were applied: 10 baskets, 5 medium boxes, 5 book baskets.
	if got := res.State.Quantity(homeKey("packing", "basket")); got != 10 {
		t.Errorf("basket quantity = %d, want 10", got)
	}
	if got := res.State.Quantity(homeKey("packing", "book_basket")); got != 5 {
		t.Errorf("book basket quantity = %d, want 5", got)
	}
	wantVol := 2.4 + 10*0.1 + 5*0.06 + 5*0.05
	if !approx(res.State.TotalVolume, wantVol) {
		t.Errorf("TotalVolume = %v, want %v", res.State.TotalVolume, wantVol)
	}
	if res.Recommendation.Vehicle != "1톤" || res.State.RecommendedVehicle != "1톤" {
		t.Errorf("recommendation = %+v", res.Recommendation)
	}
	if res.Quote.Invalid || res.Quote.Items[0].Amount != 400000 {
		t.Errorf("unexpected quote %+v", res.Quote)
	}
}

func TestRecompute_KeepsEditedBasketsWhenVehicleUnchanged(t *testing.T) {
	cat := testCatalog(t)
	first := Recompute(cat, NewQuoteState(cat, testToday),
		NewQuoteState(cat, testToday).WithQuantity(homeKey("furniture", "wardrobe"), 2))

	edited := first.State.WithQuantity(homeKey("packing", "basket"), 3)
	second := Recompute(cat, first.State, edited)

	if got := second.State.Quantity(homeKey("packing", "basket")); got != 3 {
		t.Errorf("basket quantity = %d, want the edited 3", got)
	}
	if second.State.FinalVehicle != "1톤" {
		t.Errorf("FinalVehicle = %q, want 1톤", second.State.FinalVehicle)
	}
}

func TestRecompute_VehicleChangeReplacesBaskets(t *testing.T) {
	cat := testCatalog(t)
	prev := NewQuoteState(cat, testToday)
	prev.FinalVehicle = "1톤"

	next := prev.WithQuantity(homeKey("packing", "basket"), 99).
		WithQuantity(homeKey("packing", "medium_basket"), 7)
	next.VehicleMode = VehicleModeManual
	next.ManualVehicle = "5톤"

	res := Recompute(cat, prev, next)
	if res.State.FinalVehicle != "5톤" {
		t.Fatalf("FinalVehicle = %q, want 5톤", res.State.FinalVehicle)
	}
	if got := res.State.Quantity(homeKey("packing", "basket")); got != 50 {
		t.Errorf("basket quantity = %d, want 5톤 default 50", got)
	}
	if got := res.State.Quantity(homeKey("packing", "book_basket")); got != 20 {
		t.Errorf("book basket quantity = %d, want 5톤 default 20", got)
	}
	// No default for medium baskets, so the entered count stays.
	if got := res.State.Quantity(homeKey("packing", "medium_basket")); got != 7 {
		t.Errorf("medium basket quantity = %d, want the entered 7", got)
	}
}

func TestRecompute_ManualUnavailableIsSentinel(t *testing.T) {
	cat := testCatalog(t)
	s := NewQuoteState(cat, testToday)
	s.MoveType = "office"
	s.VehicleMode = VehicleModeManual
	s.ManualVehicle = "20톤"

	res := Recompute(cat, s, s)
	if res.State.FinalVehicle != "" {
		t.Errorf("FinalVehicle = %q, want empty", res.State.FinalVehicle)
	}
	if len(res.Quote.Items) != 1 || res.Quote.Items[0].Label != ErrorLabel {
		t.Errorf("expected sentinel, got %+v", res.Quote.Items)
	}
}

func TestRecompute_ResetsRemoveHelperWithoutBaseHelper(t *testing.T) {
	cat := testCatalog(t)
	s := NewQuoteState(cat, testToday)
	s.VehicleMode = VehicleModeManual
	s.ManualVehicle = "1톤"
	s.RemoveBaseHelper = true

	res := Recompute(cat, s, s)
	if res.State.RemoveBaseHelper {
		t.Error("RemoveBaseHelper should be reset for a vehicle without base helper")
	}

	s.ManualVehicle = "2.5톤"
	res = Recompute(cat, s, s)
	if !res.State.RemoveBaseHelper {
		t.Error("RemoveBaseHelper should be kept for a vehicle with a base helper")
	}
}

func TestRecompute_OverflowHasNoVehicle(t *testing.T) {
	cat := testCatalog(t)
	s := NewQuoteState(cat, testToday).WithQuantity(homeKey("appliances", "piano"), 100)

	res := Recompute(cat, s, s)
	if !res.Recommendation.Overflow {
		t.Fatalf("expected overflow, got %+v", res.Recommendation)
	}
	if res.State.FinalVehicle != "" || !res.Quote.Invalid {
		t.Errorf("overflow should leave no vehicle and an invalid quote, got %q", res.State.FinalVehicle)
	}
}

func TestRecompute_PureAndDeterministic(t *testing.T) {
	cat := testCatalog(t)
	prev := NewQuoteState(cat, testToday)
	next := prev.WithQuantity(homeKey("furniture", "sofa_3"), 2)
	next.AddMen = 1
	before := next.Clone()

	a := Recompute(cat, prev, next)
	b := Recompute(cat, prev, next)

	if !reflect.DeepEqual(next, before) {
		t.Error("Recompute modified its input")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Recompute is not deterministic")
	}
}

func TestRecompute_MoveTypeSwitchKeepsCounters(t *testing.T) {
	cat := testCatalog(t)
	s := NewQuoteState(cat, testToday).WithQuantity(homeKey("furniture", "wardrobe"), 4)
	s.MoveType = "office"

	res := Recompute(cat, s, s)
	if res.State.TotalVolume != 0 {
		t.Errorf("office totals should ignore home counters, got %v", res.State.TotalVolume)
	}
	if res.State.Quantity(homeKey("furniture", "wardrobe")) != 4 {
		t.Error("home counter was dropped on move type switch")
	}
}
