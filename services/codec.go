package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"movequote/catalog"
)

// Record keys of a saved quote. Names match the files already stored by
// earlier versions of the tool so old quotes keep loading.
const (
	KeyMoveType         = "base_move_type"
	KeyIsStorageMove    = "is_storage_move"
	KeyStorageType      = "storage_type"
	KeyLongDistance     = "apply_long_distance"
	KeyCustomerName     = "customer_name"
	KeyCustomerPhone    = "customer_phone"
	KeyFromLocation     = "from_location"
	KeyToLocation       = "to_location"
	KeyMovingDate       = "moving_date"
	KeyFromFloor        = "from_floor"
	KeyFromMethod       = "from_method"
	KeyToFloor          = "to_floor"
	KeyToMethod         = "to_method"
	KeySpecialNotes     = "special_notes"
	KeyStorageDays      = "storage_duration"
	KeyDistanceBand     = "long_distance_selector"
	KeyVehicleMode      = "vehicle_select_radio"
	KeyManualVehicle    = "manual_vehicle_select_value"
	KeyFinalVehicle     = "final_selected_vehicle"
	KeySkyHoursFrom     = "sky_hours_from"
	KeySkyHoursTo       = "sky_hours_final"
	KeyAddMen           = "add_men"
	KeyAddWomen         = "add_women"
	KeyHasWaste         = "has_waste_check"
	KeyWasteTons        = "waste_tons_input"
	KeyDeposit          = "deposit_amount"
	KeyAdjustment       = "adjustment_amount"
	KeyRegionalLadder   = "regional_ladder_surcharge"
	KeyRemoveBaseHelper = "remove_base_housewife"
	KeyDispatched1t     = "dispatched_1t"
	KeyDispatched2_5t   = "dispatched_2_5t"
	KeyDispatched3_5t   = "dispatched_3_5t"
	KeyDispatched5t     = "dispatched_5t"
	KeyPhotoNames       = "uploaded_image_filenames"
	KeyTotalVolume      = "total_volume"
	KeyTotalWeight      = "total_weight"
	KeyRecommended      = "recommended_vehicle_auto"
	keyDateOptionFormat = "date_opt_%d_widget"
)

// DateOptionKey is the record key of the i-th date toggle.
func DateOptionKey(i int) string {
	return fmt.Sprintf(keyDateOptionFormat, i)
}

// Older records carry the radio labels instead of the mode ids.
var legacyVehicleModes = map[string]VehicleMode{
	"자동 추천 차량 사용": VehicleModeAuto,
	"수동으로 차량 선택":  VehicleModeManual,
}

const dateLayout = "2006-01-02"

// FieldError is one field that could not be restored; the field keeps its
// default value.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// EncodeState renders s as a flat JSON object with sorted keys.
func EncodeState(s QuoteState) ([]byte, error) {
	return json.MarshalIndent(StateRecord(s), "", "  ")
}

// StateRecord flattens s into the saved record layout.
func StateRecord(s QuoteState) map[string]any {
	rec := map[string]any{
		KeyMoveType:         s.MoveType,
		KeyIsStorageMove:    s.IsStorageMove,
		KeyStorageType:      s.StorageType,
		KeyLongDistance:     s.LongDistance,
		KeyCustomerName:     s.CustomerName,
		KeyCustomerPhone:    s.CustomerPhone,
		KeyFromLocation:     s.FromLocation,
		KeyToLocation:       s.ToLocation,
		KeyMovingDate:       s.MovingDate.Format(dateLayout),
		KeyFromFloor:        s.FromFloor,
		KeyFromMethod:       s.FromMethod,
		KeyToFloor:          s.ToFloor,
		KeyToMethod:         s.ToMethod,
		KeySpecialNotes:     s.SpecialNotes,
		KeyStorageDays:      s.StorageDays,
		KeyDistanceBand:     s.DistanceBand,
		KeyVehicleMode:      string(s.VehicleMode),
		KeyManualVehicle:    s.ManualVehicle,
		KeyFinalVehicle:     s.FinalVehicle,
		KeySkyHoursFrom:     s.SkyHoursFrom,
		KeySkyHoursTo:       s.SkyHoursTo,
		KeyAddMen:           s.AddMen,
		KeyAddWomen:         s.AddWomen,
		KeyHasWaste:         s.HasWaste,
		KeyWasteTons:        s.WasteTons,
		KeyDeposit:          s.Deposit,
		KeyAdjustment:       s.Adjustment,
		KeyRegionalLadder:   s.RegionalLadder,
		KeyRemoveBaseHelper: s.RemoveBaseHelper,
		KeyDispatched1t:     s.Dispatched.OneTon,
		KeyDispatched2_5t:   s.Dispatched.TwoHalfTon,
		KeyDispatched3_5t:   s.Dispatched.ThreeHalfTon,
		KeyDispatched5t:     s.Dispatched.FiveTon,
		KeyTotalVolume:      s.TotalVolume,
		KeyTotalWeight:      s.TotalWeight,
		KeyRecommended:      s.RecommendedVehicle,
	}

	photos := s.PhotoNames
	if photos == nil {
		photos = []string{}
	}
	rec[KeyPhotoNames] = photos

	for i, on := range s.DateFlags {
		rec[DateOptionKey(i)] = on
	}
	for k, n := range s.Quantities {
		if n > 0 {
			rec[k.String()] = n
		}
	}
	return rec
}

// DecodeState parses a saved record. It only fails when data is not a
// JSON object; every field problem is reported in the returned slice and
// the field keeps its default.
func DecodeState(cat *catalog.Catalog, data []byte, today time.Time) (QuoteState, []FieldError, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return QuoteState{}, nil, fmt.Errorf("decode quote record: %w", err)
	}
	if raw == nil {
		return QuoteState{}, nil, fmt.Errorf("decode quote record: not an object")
	}
	s, errs := DecodeRecord(cat, raw, today)
	return s, errs, nil
}

// DecodeRecord restores a state from an already parsed record.
func DecodeRecord(cat *catalog.Catalog, raw map[string]any, today time.Time) (QuoteState, []FieldError) {
	d := &recordDecoder{cat: cat, raw: raw}
	s := NewQuoteState(cat, today)

	d.lookup(KeyMoveType, &s.MoveType, cat.ResolveMoveType)
	d.text(KeyCustomerName, &s.CustomerName)
	d.text(KeyCustomerPhone, &s.CustomerPhone)
	d.text(KeyFromLocation, &s.FromLocation)
	d.text(KeyToLocation, &s.ToLocation)
	d.text(KeySpecialNotes, &s.SpecialNotes)
	d.text(KeyFromFloor, &s.FromFloor)
	d.text(KeyToFloor, &s.ToFloor)
	d.date(KeyMovingDate, &s.MovingDate, today.Location())

	d.lookup(KeyFromMethod, &s.FromMethod, func(v string) (string, bool) {
		m, ok := cat.AccessMethod(v)
		return m.ID, ok
	})
	d.lookup(KeyToMethod, &s.ToMethod, func(v string) (string, bool) {
		m, ok := cat.AccessMethod(v)
		return m.ID, ok
	})

	d.boolean(KeyIsStorageMove, &s.IsStorageMove)
	d.lookup(KeyStorageType, &s.StorageType, func(v string) (string, bool) {
		st, ok := cat.StorageType(v)
		return st.ID, ok
	})
	d.integer(KeyStorageDays, &s.StorageDays, 1)

	d.boolean(KeyLongDistance, &s.LongDistance)
	d.lookup(KeyDistanceBand, &s.DistanceBand, func(v string) (string, bool) {
		b, ok := cat.DistanceBand(v)
		return b.ID, ok
	})

	d.vehicleMode(&s.VehicleMode)
	d.lookup(KeyManualVehicle, &s.ManualVehicle, func(v string) (string, bool) {
		if v == "" {
			return "", true
		}
		_, ok := cat.Vehicle(v)
		return v, ok
	})
	d.text(KeyFinalVehicle, &s.FinalVehicle)
	d.text(KeyRecommended, &s.RecommendedVehicle)

	d.integer(KeySkyHoursFrom, &s.SkyHoursFrom, 1)
	d.integer(KeySkyHoursTo, &s.SkyHoursTo, 1)
	d.integer(KeyAddMen, &s.AddMen, 0)
	d.integer(KeyAddWomen, &s.AddWomen, 0)
	d.boolean(KeyRemoveBaseHelper, &s.RemoveBaseHelper)

	d.boolean(KeyHasWaste, &s.HasWaste)
	d.wasteTons(&s.WasteTons)

	for i := range s.DateFlags {
		d.boolean(DateOptionKey(i), &s.DateFlags[i])
	}

	d.amount(KeyDeposit, &s.Deposit, true)
	d.amount(KeyAdjustment, &s.Adjustment, false)
	d.amount(KeyRegionalLadder, &s.RegionalLadder, true)

	d.integer(KeyDispatched1t, &s.Dispatched.OneTon, 0)
	d.integer(KeyDispatched2_5t, &s.Dispatched.TwoHalfTon, 0)
	d.integer(KeyDispatched3_5t, &s.Dispatched.ThreeHalfTon, 0)
	d.integer(KeyDispatched5t, &s.Dispatched.FiveTon, 0)

	d.number(KeyTotalVolume, &s.TotalVolume)
	d.number(KeyTotalWeight, &s.TotalWeight)
	d.photos(&s.PhotoNames)
	d.quantities(s.Quantities)

	sort.Slice(d.errs, func(i, j int) bool { return d.errs[i].Field < d.errs[j].Field })
	return s, d.errs
}

type recordDecoder struct {
	cat  *catalog.Catalog
	raw  map[string]any
	errs []FieldError
}

func (d *recordDecoder) fail(field string, err error) {
	d.errs = append(d.errs, FieldError{Field: field, Reason: err.Error()})
}

func (d *recordDecoder) value(key string) (any, bool) {
	v, ok := d.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *recordDecoder) text(key string, dst *string) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = str
}

// lookup decodes a string and maps it through resolve; values resolve
// does not recognize are reported and leave the default in place.
func (d *recordDecoder) lookup(key string, dst *string, resolve func(string) (string, bool)) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	id, ok := resolve(str)
	if !ok {
		d.fail(key, fmt.Errorf("unknown value %q", str))
		return
	}
	*dst = id
}

func (d *recordDecoder) boolean(key string, dst *bool) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = b
}

// integer decodes a count and clamps it to at least lo.
func (d *recordDecoder) integer(key string, dst *int, lo int) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = clampMin(n, lo)
}

func (d *recordDecoder) amount(key string, dst *int64, nonNegative bool) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	if nonNegative && n < 0 {
		n = 0
	}
	*dst = n
}

func (d *recordDecoder) number(key string, dst *float64) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = f
}

func (d *recordDecoder) date(key string, dst *time.Time, loc *time.Location) {
	v, ok := d.value(key)
	if !ok {
		return
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		d.fail(key, err)
		return
	}
	if len(str) > len(dateLayout) {
		str = str[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, str, loc)
	if err != nil {
		d.fail(key, err)
		return
	}
	*dst = t
}

func (d *recordDecoder) vehicleMode(dst *VehicleMode) {
	v, ok := d.value(KeyVehicleMode)
	if !ok {
		return
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		d.fail(KeyVehicleMode, err)
		return
	}
	switch mode := VehicleMode(str); mode {
	case VehicleModeAuto, VehicleModeManual:
		*dst = mode
	default:
		if legacy, ok := legacyVehicleModes[str]; ok {
			*dst = legacy
			return
		}
		d.fail(KeyVehicleMode, fmt.Errorf("unknown vehicle mode %q", str))
	}
}

func (d *recordDecoder) wasteTons(dst *float64) {
	v, ok := d.value(KeyWasteTons)
	if !ok {
		return
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		d.fail(KeyWasteTons, err)
		return
	}
	if !IsValidWasteTons(f) {
		d.fail(KeyWasteTons, fmt.Errorf("%v outside %.1f-%.1f in %.1f steps", f, MinWasteTons, MaxWasteTons, WasteTonsStep))
		return
	}
	*dst = f
}

func (d *recordDecoder) photos(dst *[]string) {
	v, ok := d.value(KeyPhotoNames)
	if !ok {
		return
	}
	names, err := cast.ToStringSliceE(v)
	if err != nil {
		d.fail(KeyPhotoNames, err)
		return
	}
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) > MaxPhotos {
		d.fail(KeyPhotoNames, fmt.Errorf("%d photos, keeping the first %d", len(out), MaxPhotos))
		out = out[:MaxPhotos]
	}
	*dst = out
}

// quantities restores every qty:* key that names an item of a section of
// a known move type. Older records spell the key with display labels,
// qty_<move type>_<section>_<item>; those are resolved through the catalog.
func (d *recordDecoder) quantities(dst map[QuantityKey]int) {
	for key, v := range d.raw {
		var qk QuantityKey
		switch {
		case IsQuantityKey(key):
			k, err := ParseQuantityKey(key)
			if err != nil {
				d.fail(key, err)
				continue
			}
			if !d.knownQuantity(k) {
				d.fail(key, fmt.Errorf("no item %q in section %q of move type %q", k.Item, k.Section, k.MoveType))
				continue
			}
			qk = k
		case strings.HasPrefix(key, legacyQuantityPrefix):
			k, ok := d.legacyQuantity(key)
			if !ok {
				d.fail(key, fmt.Errorf("no catalog item matches %q", key))
				continue
			}
			qk = k
		default:
			continue
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			d.fail(key, err)
			continue
		}
		if n > 0 {
			dst[qk] = n
		}
	}
}

const legacyQuantityPrefix = "qty_"

// legacyQuantity matches a label-spelled key against every move type,
// section and item of the catalog. Labels may themselves contain "_", so
// the key is matched by prefix rather than split.
func (d *recordDecoder) legacyQuantity(key string) (QuantityKey, bool) {
	rest := strings.TrimPrefix(key, legacyQuantityPrefix)
	for _, mt := range d.cat.MoveTypes {
		afterMove, ok := strings.CutPrefix(rest, mt.Label+"_")
		if !ok {
			continue
		}
		for _, sec := range mt.Sections {
			name, ok := strings.CutPrefix(afterMove, sec.Label+"_")
			if !ok {
				continue
			}
			for _, id := range sec.Items {
				if it, ok := d.cat.Item(id); ok && (it.Label == name || it.ID == name) {
					return QuantityKey{MoveType: mt.ID, Section: sec.ID, Item: id}, true
				}
			}
		}
	}
	return QuantityKey{}, false
}

func (d *recordDecoder) knownQuantity(k QuantityKey) bool {
	mt, ok := d.cat.MoveType(k.MoveType)
	if !ok {
		return false
	}
	for _, s := range mt.Sections {
		if s.ID != k.Section {
			continue
		}
		for _, id := range s.Items {
			if id == k.Item {
				return true
			}
		}
	}
	return false
}
