package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"movequote/catalog"
)

// VehicleMode selects between the recommended vehicle and a manual choice.
type VehicleMode string

const (
	VehicleModeAuto   VehicleMode = "auto"
	VehicleModeManual VehicleMode = "manual"
)

// MaxPhotos is the number of images kept per quote.
const MaxPhotos = 5

// Waste tonnage bounds; values snap to WasteTonsStep.
const (
	MinWasteTons  = 0.5
	MaxWasteTons  = 10.0
	WasteTonsStep = 0.5
)

// QuantityKey identifies one counter. The same item id may appear under
// several sections or move types and each keeps its own count.
type QuantityKey struct {
	MoveType string
	Section  string
	Item     string
}

const quantityKeyPrefix = "qty:"

// String renders the key as used in forms and saved records.
func (k QuantityKey) String() string {
	return quantityKeyPrefix + k.MoveType + ":" + k.Section + ":" + k.Item
}

// ParseQuantityKey is the inverse of QuantityKey.String.
func ParseQuantityKey(s string) (QuantityKey, error) {
	if !strings.HasPrefix(s, quantityKeyPrefix) {
		return QuantityKey{}, fmt.Errorf("not a quantity key: %q", s)
	}
	parts := strings.Split(strings.TrimPrefix(s, quantityKeyPrefix), ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return QuantityKey{}, fmt.Errorf("malformed quantity key: %q", s)
	}
	return QuantityKey{MoveType: parts[0], Section: parts[1], Item: parts[2]}, nil
}

// IsQuantityKey reports whether a record key belongs to a quantity counter.
func IsQuantityKey(s string) bool {
	return strings.HasPrefix(s, quantityKeyPrefix)
}

// Dispatched holds the informational per-class truck counts used in the
// dispatch summary. They never affect pricing.
type Dispatched struct {
	OneTon       int
	TwoHalfTon   int
	ThreeHalfTon int
	FiveTon      int
}

func (d Dispatched) Any() bool {
	return d.OneTon > 0 || d.TwoHalfTon > 0 || d.ThreeHalfTon > 0 || d.FiveTon > 0
}

// QuoteState is the complete input of one quote. Treat it as a value:
// the With* helpers and Clone return copies so a recompute never mutates
// the state it was given.
type QuoteState struct {
	MoveType string

	CustomerName  string
	CustomerPhone string
	FromLocation  string
	ToLocation    string
	MovingDate    time.Time
	SpecialNotes  string

	FromFloor  string
	FromMethod string
	ToFloor    string
	ToMethod   string

	IsStorageMove bool
	StorageType   string
	StorageDays   int

	LongDistance bool
	DistanceBand string

	Quantities map[QuantityKey]int

	VehicleMode   VehicleMode
	ManualVehicle string
	FinalVehicle  string

	SkyHoursFrom int
	SkyHoursTo   int

	AddMen           int
	AddWomen         int
	RemoveBaseHelper bool

	HasWaste  bool
	WasteTons float64

	DateFlags [catalog.DateSurchargeCount]bool

	Deposit        int64
	Adjustment     int64
	RegionalLadder int64

	Dispatched Dispatched

	PhotoNames []string

	// Derived on every recompute.
	TotalVolume        float64
	TotalWeight        float64
	RecommendedVehicle string
}

// NewQuoteState returns a state populated with catalog defaults.
func NewQuoteState(cat *catalog.Catalog, today time.Time) QuoteState {
	s := QuoteState{
		MoveType:     cat.DefaultMoveType(),
		MovingDate:   dateOnly(today),
		StorageDays:  1,
		Quantities:   map[QuantityKey]int{},
		VehicleMode:  VehicleModeAuto,
		SkyHoursFrom: 1,
		SkyHoursTo:   1,
		WasteTons:    MinWasteTons,
	}
	if len(cat.AccessMethods) > 0 {
		s.FromMethod = cat.AccessMethods[0].ID
		s.ToMethod = cat.AccessMethods[0].ID
	}
	if len(cat.StorageTypes) > 0 {
		s.StorageType = cat.StorageTypes[0].ID
	}
	if len(cat.DistanceBands) > 0 {
		s.DistanceBand = cat.DistanceBands[0].ID
	}
	return s
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Clone returns a deep copy.
func (s QuoteState) Clone() QuoteState {
	out := s
	out.Quantities = make(map[QuantityKey]int, len(s.Quantities))
	for k, v := range s.Quantities {
		out.Quantities[k] = v
	}
	if s.PhotoNames != nil {
		out.PhotoNames = append([]string(nil), s.PhotoNames...)
	}
	return out
}

// Quantity returns the count stored under k, zero when absent.
func (s QuoteState) Quantity(k QuantityKey) int {
	return s.Quantities[k]
}

// WithQuantity returns a copy of s with k set to n (negative counts clamp to 0).
func (s QuoteState) WithQuantity(k QuantityKey, n int) QuoteState {
	out := s.Clone()
	if n <= 0 {
		delete(out.Quantities, k)
		return out
	}
	out.Quantities[k] = n
	return out
}

// normalize clamps counters and amounts into their allowed ranges.
// Adjustment keeps its sign.
func (s *QuoteState) normalize() {
	for k, v := range s.Quantities {
		if v <= 0 {
			delete(s.Quantities, k)
		}
	}
	s.StorageDays = clampMin(s.StorageDays, 1)
	s.SkyHoursFrom = clampMin(s.SkyHoursFrom, 1)
	s.SkyHoursTo = clampMin(s.SkyHoursTo, 1)
	s.AddMen = clampMin(s.AddMen, 0)
	s.AddWomen = clampMin(s.AddWomen, 0)
	s.Dispatched.OneTon = clampMin(s.Dispatched.OneTon, 0)
	s.Dispatched.TwoHalfTon = clampMin(s.Dispatched.TwoHalfTon, 0)
	s.Dispatched.ThreeHalfTon = clampMin(s.Dispatched.ThreeHalfTon, 0)
	s.Dispatched.FiveTon = clampMin(s.Dispatched.FiveTon, 0)
	if s.Deposit < 0 {
		s.Deposit = 0
	}
	if s.RegionalLadder < 0 {
		s.RegionalLadder = 0
	}
	s.WasteTons = NormalizeWasteTons(s.WasteTons)
	if s.VehicleMode != VehicleModeManual {
		s.VehicleMode = VehicleModeAuto
	}
	if len(s.PhotoNames) > MaxPhotos {
		s.PhotoNames = s.PhotoNames[:MaxPhotos]
	}
}

func clampMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// NormalizeWasteTons clamps t into [MinWasteTons, MaxWasteTons] and snaps
// it to the nearest WasteTonsStep.
func NormalizeWasteTons(t float64) float64 {
	if math.IsNaN(t) || t < MinWasteTons {
		return MinWasteTons
	}
	if t > MaxWasteTons {
		return MaxWasteTons
	}
	steps := int(t/WasteTonsStep + 0.5)
	return float64(steps) * WasteTonsStep
}

// IsValidWasteTons reports whether t is already a normalized tonnage.
func IsValidWasteTons(t float64) bool {
	return t >= MinWasteTons && t <= MaxWasteTons && NormalizeWasteTons(t) == t
}
