package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return c
}

func TestDefault_Loads(t *testing.T) {
	c := mustDefault(t)

	if got := c.DefaultMoveType(); got != "home" {
		t.Errorf("DefaultMoveType() = %q, want %q", got, "home")
	}
	if len(c.DateSurcharges) != DateSurchargeCount {
		t.Errorf("expected %d date surcharges, got %d", DateSurchargeCount, len(c.DateSurcharges))
	}
	if c.AdditionalPersonCost != 200000 {
		t.Errorf("AdditionalPersonCost = %d, want 200000", c.AdditionalPersonCost)
	}
	if c.WasteCostPerTon != 300000 {
		t.Errorf("WasteCostPerTon = %d, want 300000", c.WasteCostPerTon)
	}

	wardrobe, ok := c.Item("wardrobe")
	if !ok {
		t.Fatal("expected wardrobe item")
	}
	if wardrobe.Volume != 1.2 || wardrobe.Weight != 40 || wardrobe.Unit != "칸" {
		t.Errorf("unexpected wardrobe: %+v", wardrobe)
	}
}

func TestVehiclesByCapacity_Ordered(t *testing.T) {
	c := mustDefault(t)
	vs := c.VehiclesByCapacity()
	if len(vs) == 0 {
		t.Fatal("expected vehicles")
	}
	for i := 1; i < len(vs); i++ {
		if vs[i].Capacity < vs[i-1].Capacity {
			t.Errorf("vehicle %s (%v) sorted after %s (%v)", vs[i].Name, vs[i].Capacity, vs[i-1].Name, vs[i-1].Capacity)
		}
	}
}

func TestVehiclesByCapacity_StableOnTies(t *testing.T) {
	c, err := New(Catalog{
		MoveTypes: []MoveType{{ID: "home", Label: "집", Sections: []Section{{ID: "s", Label: "S", Items: []string{"a"}}}}},
		Items:     []Item{{ID: "a", Label: "A", Volume: 1, Weight: 1, Unit: "개"}},
		Vehicles: []VehicleSpec{
			{Name: "B", Capacity: 10, WeightCapacity: 100},
			{Name: "A", Capacity: 5, WeightCapacity: 100},
			{Name: "C", Capacity: 10, WeightCapacity: 100},
		},
		VehiclePrices:  []VehiclePrice{{MoveType: "home", Vehicle: "A", Price: 1}},
		AccessMethods:  []AccessMethod{{ID: "elevator", Label: "승강기"}},
		DistanceBands:  []DistanceBand{{ID: "none", Label: "없음"}},
		StorageTypes:   []StorageType{{ID: "box", Label: "박스"}},
		DateSurcharges: fiveSurcharges(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var names []string
	for _, v := range c.VehiclesByCapacity() {
		names = append(names, v.Name)
	}
	want := []string{"A", "B", "C"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("VehiclesByCapacity() = %v, want %v", names, want)
		}
	}
}

func TestAvailableVehicles(t *testing.T) {
	c := mustDefault(t)

	home := c.AvailableVehicles("home")
	if len(home) != 9 || home[0] != "1톤" || home[len(home)-1] != "20톤" {
		t.Errorf("AvailableVehicles(home) = %v", home)
	}

	office := c.AvailableVehicles("office")
	for _, v := range office {
		if v == "20톤" {
			t.Errorf("office should not price 20톤, got %v", office)
		}
	}
	if got := c.AvailableVehicles("nope"); len(got) != 0 {
		t.Errorf("AvailableVehicles(unknown) = %v, want empty", got)
	}
}

func TestLookupByLabel(t *testing.T) {
	c := mustDefault(t)

	if m, ok := c.AccessMethod("계단 🚶"); !ok || m.ID != "stairs" {
		t.Errorf("AccessMethod by label = %+v, %v", m, ok)
	}
	if id, ok := c.ResolveMoveType("사무실 이사 🏢"); !ok || id != "office" {
		t.Errorf("ResolveMoveType by label = %q, %v", id, ok)
	}
	if _, ok := c.StorageType("missing"); ok {
		t.Error("expected unknown storage type to miss")
	}
	if s, ok := c.PackingSection("home"); !ok || s.ID != "packing" {
		t.Errorf("PackingSection(home) = %+v, %v", s, ok)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() Catalog {
		c := mustDefault(t)
		return Catalog{
			MoveTypes:            c.MoveTypes,
			Items:                c.Items,
			Vehicles:             c.Vehicles,
			VehiclePrices:        c.VehiclePrices,
			BasketDefaults:       c.BasketDefaults,
			AccessMethods:        c.AccessMethods,
			DistanceBands:        c.DistanceBands,
			StorageTypes:         c.StorageTypes,
			DateSurcharges:       c.DateSurcharges,
			AdditionalPersonCost: c.AdditionalPersonCost,
			WasteCostPerTon:      c.WasteCostPerTon,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Catalog)
	}{
		{"colon in item id", func(c *Catalog) {
			c.Items = append([]Item{{ID: "a:b", Label: "x", Unit: "개"}}, c.Items...)
		}},
		{"four date surcharges", func(c *Catalog) { c.DateSurcharges = c.DateSurcharges[:4] }},
		{"unknown section item", func(c *Catalog) {
			c.MoveTypes = []MoveType{{ID: "home", Label: "집", Sections: []Section{{ID: "s", Label: "S", Items: []string{"ghost"}}}}}
		}},
		{"price for unknown vehicle", func(c *Catalog) {
			c.VehiclePrices = append(c.VehiclePrices, VehiclePrice{MoveType: "home", Vehicle: "99톤", Price: 1})
		}},
		{"negative person cost", func(c *Catalog) { c.AdditionalPersonCost = -1 }},
		{"negative item volume", func(c *Catalog) {
			c.Items = append(c.Items, Item{ID: "neg", Label: "neg", Volume: -1, Unit: "개"})
		}},
		{"basket default unknown item", func(c *Catalog) {
			c.BasketDefaults = []BasketDefault{{Vehicle: "1톤", Quantities: map[string]int{"ghost": 1}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("Validate() = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := c.VehiclePrice("office", "10톤"); !ok {
		t.Error("expected office 10톤 price")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func fiveSurcharges() []DateSurcharge {
	return []DateSurcharge{
		{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"},
		{ID: "d", Label: "D"}, {ID: "e", Label: "E"},
	}
}
