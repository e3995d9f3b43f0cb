// Package services provides the quotation engine (load aggregation, vehicle
// recommendation and cost calculation) and the quote documents built on it.
package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"movequote/catalog"
)

// ErrorLabel is the label of the sentinel line emitted when the base price
// cannot be determined.
const ErrorLabel = "오류"

// Line item labels.
const (
	LabelBase            = "기본 운임"
	LabelAddMen          = "추가 인력 (남)"
	LabelAddWomen        = "추가 인력 (여)"
	LabelRemoveHelper    = "기본 여성 인원 제외"
	LabelFromAccess      = "출발지 작업비"
	LabelToAccess        = "도착지 작업비"
	LabelLongDistance    = "장거리 운송료"
	LabelStorage         = "보관료"
	LabelWaste           = "폐기물 처리"
	LabelRegionalLadder  = "지방 사다리 추가요금"
	LabelAdjustment      = "추가 조정"
	dateSurchargeNote    = "날짜 할증"
	adjustmentNoteRaise  = "할증"
	adjustmentNoteReduce = "할인"
)

type CostLineItem struct {
	Label  string
	Amount int64
	Note   string
}

type PersonnelInfo struct {
	FinalMen   int
	FinalWomen int
}

// Quote is the priced result of one state. Invalid is set when the line
// items hold only the sentinel; Total is then zero.
type Quote struct {
	Items     []CostLineItem
	Total     int64
	Personnel PersonnelInfo
	Invalid   bool
}

// Remaining is the balance due after the deposit.
func (q Quote) Remaining(deposit int64) int64 {
	return q.Total - deposit
}

// Calculate prices a state. It never fails: malformed optional inputs fall
// back to defaults and an unpriced vehicle yields the sentinel line.
func Calculate(cat *catalog.Catalog, in QuoteState) Quote {
	s := in.Clone()
	s.normalize()

	price, ok := cat.VehiclePrice(s.MoveType, s.FinalVehicle)
	if !ok {
		note := "차량 미선택"
		if s.FinalVehicle != "" {
			note = fmt.Sprintf("%s: 가격 정보 없음", s.FinalVehicle)
		}
		return Quote{
			Items:     []CostLineItem{{Label: ErrorLabel, Note: note}},
			Personnel: PersonnelInfo{FinalMen: s.AddMen, FinalWomen: s.AddWomen},
			Invalid:   true,
		}
	}

	var items []CostLineItem
	add := func(label string, amount int64, note string) {
		items = append(items, CostLineItem{Label: label, Amount: amount, Note: note})
	}

	moveLabel := s.MoveType
	if mt, ok := cat.MoveType(s.MoveType); ok {
		moveLabel = mt.Label
	}
	add(LabelBase, price.Price, fmt.Sprintf("%s (%s)", s.FinalVehicle, moveLabel))

	if s.AddMen > 0 {
		add(LabelAddMen, int64(s.AddMen)*cat.AdditionalPersonCost, fmt.Sprintf("%d명", s.AddMen))
	}
	if s.AddWomen > 0 {
		add(LabelAddWomen, int64(s.AddWomen)*cat.AdditionalPersonCost, fmt.Sprintf("%d명", s.AddWomen))
	}

	removed := 0
	if s.RemoveBaseHelper && price.Housewife > 0 {
		removed = price.Housewife
		add(LabelRemoveHelper, -int64(removed)*cat.AdditionalPersonCost, fmt.Sprintf("%d명 제외", removed))
	}

	if amount, note := accessFee(cat, s.FromMethod, s.FromFloor, s.SkyHoursFrom); amount > 0 {
		add(LabelFromAccess, amount, note)
	}
	if amount, note := accessFee(cat, s.ToMethod, s.ToFloor, s.SkyHoursTo); amount > 0 {
		add(LabelToAccess, amount, note)
	}

	if s.LongDistance {
		if band, ok := cat.DistanceBand(s.DistanceBand); ok {
			if amount := band.Fee + percentOf(price.Price, band.BasePercent); amount > 0 {
				add(LabelLongDistance, amount, band.Label)
			}
		}
	}

	if s.IsStorageMove {
		if st, ok := cat.StorageType(s.StorageType); ok {
			amount := st.BaseFee + st.DailyRate*int64(s.StorageDays)
			add(LabelStorage, amount, fmt.Sprintf("%s %d일", st.Label, s.StorageDays))
		}
	}

	for i, ds := range cat.DateSurcharges {
		if i >= len(s.DateFlags) || !s.DateFlags[i] {
			continue
		}
		add(ds.Label, ds.Fee+percentOf(price.Price, ds.BasePercent), dateSurchargeNote)
	}

	if s.HasWaste {
		amount := decimal.NewFromFloat(s.WasteTons).
			Mul(decimal.NewFromInt(cat.WasteCostPerTon)).
			Round(0).IntPart()
		add(LabelWaste, amount, FormatTons(s.WasteTons))
	}

	add(LabelRegionalLadder, s.RegionalLadder, "")

	adjNote := ""
	switch {
	case s.Adjustment > 0:
		adjNote = adjustmentNoteRaise
	case s.Adjustment < 0:
		adjNote = adjustmentNoteReduce
	}
	add(LabelAdjustment, s.Adjustment, adjNote)

	var total int64
	for _, it := range items {
		total += it.Amount
	}

	return Quote{
		Items: items,
		Total: total,
		Personnel: PersonnelInfo{
			FinalMen:   price.Men + s.AddMen,
			FinalWomen: price.Housewife + s.AddWomen - removed,
		},
	}
}

// accessFee prices one end of the move: the floor band of the method, the
// per-floor charge above the ground floor and, for sky equipment, hours.
func accessFee(cat *catalog.Catalog, methodID, floorText string, hours int) (int64, string) {
	method, ok := cat.AccessMethod(methodID)
	if !ok {
		return 0, ""
	}
	floor := ParseFloor(floorText)

	var amount int64
	if floor > 0 && len(method.Bands) > 0 {
		fee := method.Bands[len(method.Bands)-1].Fee
		for _, b := range method.Bands {
			if floor <= b.MaxFloor {
				fee = b.Fee
				break
			}
		}
		amount += fee
	}
	if floor > 1 && method.PerFloor > 0 {
		amount += int64(floor-1) * method.PerFloor
	}

	note := fmt.Sprintf("%s %d층", method.Label, floor)
	if method.Hourly > 0 {
		if hours < 1 {
			hours = 1
		}
		amount += int64(hours) * method.Hourly
		note = fmt.Sprintf("%s %d시간", method.Label, hours)
	}
	return amount, note
}

// ParseFloor reads a floor number like "5", "5층" or "B1". Basements,
// blanks and anything unparseable count as ground level (0).
func ParseFloor(s string) int {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "층"))
	if s == "" || strings.HasPrefix(strings.ToUpper(s), "B") || strings.HasPrefix(s, "지하") || strings.HasPrefix(s, "-") {
		return 0
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return 0
	}
	n, err := cast.ToIntE(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func percentOf(base int64, percent float64) int64 {
	if percent <= 0 {
		return 0
	}
	return decimal.NewFromInt(base).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()
}
