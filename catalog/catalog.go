// Package catalog holds the configurable reference data behind a moving quote:
// move types, item coefficients, vehicles, price tables and surcharge rules.
package catalog

import (
	"errors"
	"sort"
)

// DateSurchargeCount is the number of date toggles a quote carries.
const DateSurchargeCount = 5

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

type Item struct {
	ID     string  `mapstructure:"id"`
	Label  string  `mapstructure:"label"`
	Volume float64 `mapstructure:"volume"`
	Weight float64 `mapstructure:"weight"`
	Unit   string  `mapstructure:"unit"`
}

// Section groups item ids for display. Waste sections never count toward
// volume or weight; the packing section receives basket defaults.
type Section struct {
	ID      string   `mapstructure:"id"`
	Label   string   `mapstructure:"label"`
	Waste   bool     `mapstructure:"waste"`
	Packing bool     `mapstructure:"packing"`
	Items   []string `mapstructure:"items"`
}

type MoveType struct {
	ID       string    `mapstructure:"id"`
	Label    string    `mapstructure:"label"`
	Sections []Section `mapstructure:"sections"`
}

type VehicleSpec struct {
	Name           string  `mapstructure:"name"`
	Capacity       float64 `mapstructure:"capacity"`
	WeightCapacity float64 `mapstructure:"weight_capacity"`
}

// VehiclePrice is one row of a move type's price table.
type VehiclePrice struct {
	MoveType  string `mapstructure:"move_type"`
	Vehicle   string `mapstructure:"vehicle"`
	Price     int64  `mapstructure:"price"`
	Men       int    `mapstructure:"men"`
	Housewife int    `mapstructure:"housewife"`
}

type BasketDefault struct {
	Vehicle    string         `mapstructure:"vehicle"`
	Quantities map[string]int `mapstructure:"quantities"`
}

type FloorBand struct {
	MaxFloor int   `mapstructure:"max_floor"`
	Fee      int64 `mapstructure:"fee"`
}

// AccessMethod prices one end of the move. Bands are matched by floor,
// PerFloor applies to every floor above the first and Hourly is charged
// per hour of equipment time.
type AccessMethod struct {
	ID       string      `mapstructure:"id"`
	Label    string      `mapstructure:"label"`
	Short    string      `mapstructure:"short"`
	Bands    []FloorBand `mapstructure:"bands"`
	PerFloor int64       `mapstructure:"per_floor"`
	Hourly   int64       `mapstructure:"hourly"`
}

type DistanceBand struct {
	ID          string  `mapstructure:"id"`
	Label       string  `mapstructure:"label"`
	Fee         int64   `mapstructure:"fee"`
	BasePercent float64 `mapstructure:"base_percent"`
}

type StorageType struct {
	ID        string `mapstructure:"id"`
	Label     string `mapstructure:"label"`
	BaseFee   int64  `mapstructure:"base_fee"`
	DailyRate int64  `mapstructure:"daily_rate"`
}

type DateSurcharge struct {
	ID          string  `mapstructure:"id"`
	Label       string  `mapstructure:"label"`
	Fee         int64   `mapstructure:"fee"`
	BasePercent float64 `mapstructure:"base_percent"`
}

// Catalog is read-only after Load. Lookups go through the methods so the
// indexes built by init stay consistent with the slices.
type Catalog struct {
	MoveTypes            []MoveType      `mapstructure:"move_types"`
	Items                []Item          `mapstructure:"items"`
	Vehicles             []VehicleSpec   `mapstructure:"vehicles"`
	VehiclePrices        []VehiclePrice  `mapstructure:"vehicle_prices"`
	BasketDefaults       []BasketDefault `mapstructure:"basket_defaults"`
	AccessMethods        []AccessMethod  `mapstructure:"access_methods"`
	DistanceBands        []DistanceBand  `mapstructure:"distance_bands"`
	StorageTypes         []StorageType   `mapstructure:"storage_types"`
	DateSurcharges       []DateSurcharge `mapstructure:"date_surcharges"`
	AdditionalPersonCost int64           `mapstructure:"additional_person_cost"`
	WasteCostPerTon      int64           `mapstructure:"waste_cost_per_ton"`

	items    map[string]Item
	vehicles map[string]VehicleSpec
	prices   map[string]map[string]VehiclePrice
	baskets  map[string]map[string]int
	sorted   []VehicleSpec
}

// New validates c and builds its lookup indexes.
func New(c Catalog) (*Catalog, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.init()
	return &c, nil
}

func (c *Catalog) init() {
	c.items = make(map[string]Item, len(c.Items))
	for _, it := range c.Items {
		c.items[it.ID] = it
	}

	c.vehicles = make(map[string]VehicleSpec, len(c.Vehicles))
	for _, v := range c.Vehicles {
		c.vehicles[v.Name] = v
	}

	c.prices = make(map[string]map[string]VehiclePrice)
	for _, p := range c.VehiclePrices {
		if c.prices[p.MoveType] == nil {
			c.prices[p.MoveType] = make(map[string]VehiclePrice)
		}
		c.prices[p.MoveType][p.Vehicle] = p
	}

	c.baskets = make(map[string]map[string]int, len(c.BasketDefaults))
	for _, b := range c.BasketDefaults {
		c.baskets[b.Vehicle] = b.Quantities
	}

	c.sorted = make([]VehicleSpec, len(c.Vehicles))
	copy(c.sorted, c.Vehicles)
	sort.SliceStable(c.sorted, func(i, j int) bool {
		return c.sorted[i].Capacity < c.sorted[j].Capacity
	})
}

func (c *Catalog) MoveType(id string) (MoveType, bool) {
	for _, mt := range c.MoveTypes {
		if mt.ID == id {
			return mt, true
		}
	}
	return MoveType{}, false
}

// DefaultMoveType is the first declared move type.
func (c *Catalog) DefaultMoveType() string {
	if len(c.MoveTypes) == 0 {
		return ""
	}
	return c.MoveTypes[0].ID
}

func (c *Catalog) Item(id string) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *Catalog) Vehicle(name string) (VehicleSpec, bool) {
	v, ok := c.vehicles[name]
	return v, ok
}

// VehiclesByCapacity returns all vehicles ordered by capacity ascending,
// keeping declaration order on ties.
func (c *Catalog) VehiclesByCapacity() []VehicleSpec {
	out := make([]VehicleSpec, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// VehiclePrice looks up a vehicle in a move type's price table.
func (c *Catalog) VehiclePrice(moveType, vehicle string) (VehiclePrice, bool) {
	p, ok := c.prices[moveType][vehicle]
	return p, ok
}

// AvailableVehicles lists the vehicles priced for moveType, smallest first.
func (c *Catalog) AvailableVehicles(moveType string) []string {
	table := c.prices[moveType]
	var out []string
	for _, v := range c.sorted {
		if _, ok := table[v.Name]; ok {
			out = append(out, v.Name)
		}
	}
	return out
}

// BasketDefaultsFor returns the packing quantities suggested for a vehicle.
// The returned map must not be modified.
func (c *Catalog) BasketDefaultsFor(vehicle string) map[string]int {
	return c.baskets[vehicle]
}

// PackingSection returns the packing section of a move type, if any.
func (c *Catalog) PackingSection(moveType string) (Section, bool) {
	mt, ok := c.MoveType(moveType)
	if !ok {
		return Section{}, false
	}
	for _, s := range mt.Sections {
		if s.Packing {
			return s, true
		}
	}
	return Section{}, false
}

// AccessMethod resolves an access method by id or label.
func (c *Catalog) AccessMethod(key string) (AccessMethod, bool) {
	for _, m := range c.AccessMethods {
		if m.ID == key || m.Label == key {
			return m, true
		}
	}
	return AccessMethod{}, false
}

func (c *Catalog) DistanceBand(key string) (DistanceBand, bool) {
	for _, b := range c.DistanceBands {
		if b.ID == key || b.Label == key {
			return b, true
		}
	}
	return DistanceBand{}, false
}

func (c *Catalog) StorageType(key string) (StorageType, bool) {
	for _, s := range c.StorageTypes {
		if s.ID == key || s.Label == key {
			return s, true
		}
	}
	return StorageType{}, false
}

// ResolveMoveType accepts either a move type id or its display label.
func (c *Catalog) ResolveMoveType(key string) (string, bool) {
	for _, mt := range c.MoveTypes {
		if mt.ID == key || mt.Label == key {
			return mt.ID, true
		}
	}
	return "", false
}
