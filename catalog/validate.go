package catalog

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Ids end up inside composite quantity keys, which use ':' as separator.
var idPattern = regexp.MustCompile(`^[^:\s]+$`)

func idRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Match(idPattern).Error("must not contain ':' or spaces")}
}

func (it Item) Validate() error {
	return validation.ValidateStruct(&it,
		validation.Field(&it.ID, idRules()...),
		validation.Field(&it.Label, validation.Required),
		validation.Field(&it.Volume, validation.Min(0.0)),
		validation.Field(&it.Weight, validation.Min(0.0)),
		validation.Field(&it.Unit, validation.Required),
	)
}

func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, idRules()...),
		validation.Field(&s.Label, validation.Required),
		validation.Field(&s.Items, validation.Required),
	)
}

func (m MoveType) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, idRules()...),
		validation.Field(&m.Label, validation.Required),
		validation.Field(&m.Sections, validation.Required),
	)
}

func (v VehicleSpec) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Name, validation.Required),
		validation.Field(&v.Capacity, validation.Required, validation.Min(0.0)),
		validation.Field(&v.WeightCapacity, validation.Required, validation.Min(0.0)),
	)
}

func (p VehiclePrice) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.MoveType, validation.Required),
		validation.Field(&p.Vehicle, validation.Required),
		validation.Field(&p.Price, validation.Min(0)),
		validation.Field(&p.Men, validation.Min(0)),
		validation.Field(&p.Housewife, validation.Min(0)),
	)
}

func (b FloorBand) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Fee, validation.Min(0)),
	)
}

func (m AccessMethod) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, idRules()...),
		validation.Field(&m.Label, validation.Required),
		validation.Field(&m.Bands),
		validation.Field(&m.PerFloor, validation.Min(0)),
		validation.Field(&m.Hourly, validation.Min(0)),
	)
}

func (b DistanceBand) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, idRules()...),
		validation.Field(&b.Label, validation.Required),
		validation.Field(&b.Fee, validation.Min(0)),
		validation.Field(&b.BasePercent, validation.Min(0.0)),
	)
}

func (s StorageType) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, idRules()...),
		validation.Field(&s.Label, validation.Required),
		validation.Field(&s.BaseFee, validation.Min(0)),
		validation.Field(&s.DailyRate, validation.Min(0)),
	)
}

func (d DateSurcharge) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, idRules()...),
		validation.Field(&d.Label, validation.Required),
		validation.Field(&d.Fee, validation.Min(0)),
		validation.Field(&d.BasePercent, validation.Min(0.0)),
	)
}

// Validate checks field rules on every entry and then the references
// between sections, items, vehicles, price tables and basket defaults.
func (c Catalog) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.MoveTypes, validation.Required),
		validation.Field(&c.Items, validation.Required),
		validation.Field(&c.Vehicles, validation.Required),
		validation.Field(&c.VehiclePrices, validation.Required),
		validation.Field(&c.AccessMethods, validation.Required),
		validation.Field(&c.DistanceBands, validation.Required),
		validation.Field(&c.StorageTypes, validation.Required),
		validation.Field(&c.DateSurcharges, validation.Required, validation.Length(DateSurchargeCount, DateSurchargeCount)),
		validation.Field(&c.AdditionalPersonCost, validation.Min(0)),
		validation.Field(&c.WasteCostPerTon, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validateReferences(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

func (c Catalog) validateReferences() error {
	items := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if items[it.ID] {
			return fmt.Errorf("duplicate item %q", it.ID)
		}
		items[it.ID] = true
	}

	vehicles := make(map[string]bool, len(c.Vehicles))
	for _, v := range c.Vehicles {
		if vehicles[v.Name] {
			return fmt.Errorf("duplicate vehicle %q", v.Name)
		}
		vehicles[v.Name] = true
	}

	moveTypes := make(map[string]bool, len(c.MoveTypes))
	for _, mt := range c.MoveTypes {
		if moveTypes[mt.ID] {
			return fmt.Errorf("duplicate move type %q", mt.ID)
		}
		moveTypes[mt.ID] = true

		packing := 0
		sections := make(map[string]bool, len(mt.Sections))
		for _, s := range mt.Sections {
			if sections[s.ID] {
				return fmt.Errorf("move type %q: duplicate section %q", mt.ID, s.ID)
			}
			sections[s.ID] = true
			if s.Packing {
				packing++
			}
			for _, id := range s.Items {
				if !items[id] {
					return fmt.Errorf("move type %q section %q: unknown item %q", mt.ID, s.ID, id)
				}
			}
		}
		if packing > 1 {
			return fmt.Errorf("move type %q: more than one packing section", mt.ID)
		}
	}

	for _, p := range c.VehiclePrices {
		if !moveTypes[p.MoveType] {
			return fmt.Errorf("price table: unknown move type %q", p.MoveType)
		}
		if !vehicles[p.Vehicle] {
			return fmt.Errorf("price table %q: unknown vehicle %q", p.MoveType, p.Vehicle)
		}
	}

	for _, b := range c.BasketDefaults {
		if !vehicles[b.Vehicle] {
			return fmt.Errorf("basket defaults: unknown vehicle %q", b.Vehicle)
		}
		for id, qty := range b.Quantities {
			if !items[id] {
				return fmt.Errorf("basket defaults %q: unknown item %q", b.Vehicle, id)
			}
			if qty < 0 {
				return fmt.Errorf("basket defaults %q: negative quantity for %q", b.Vehicle, id)
			}
		}
	}
	return nil
}
