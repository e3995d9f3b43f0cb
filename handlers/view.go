package handlers

import (
	"fmt"
	"net/url"

	"github.com/spf13/cast"

	"movequote/catalog"
	"movequote/services"
	"movequote/templates"
)

// quoteView carries what a rendered form needs besides the result.
type quoteView struct {
	QuoteID   string
	QuoteName string
}

// buildFormData maps a recompute result onto the form view model.
func buildFormData(cat *catalog.Catalog, res services.Result, v quoteView) templates.QuoteFormData {
	s := res.State
	rec := services.StateRecord(s)

	values := make(map[string]string, len(rec))
	checked := make(map[string]bool)
	for k, val := range rec {
		if b, ok := val.(bool); ok {
			checked[k] = b
			values[k] = cast.ToString(b)
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		values[k] = cast.ToString(val)
	}

	data := templates.QuoteFormData{
		QuoteID:    v.QuoteID,
		QuoteName:  v.QuoteName,
		Values:     values,
		Checked:    checked,
		PhotoNames: s.PhotoNames,
		Results:    buildResults(cat, res),
	}

	for _, mt := range cat.MoveTypes {
		data.MoveTypes = append(data.MoveTypes, templates.Option{Value: mt.ID, Label: mt.Label, Selected: mt.ID == s.MoveType})
		data.Sections = append(data.Sections, moveTypeView(cat, s, mt))
	}
	for _, m := range cat.AccessMethods {
		data.FromMethods = append(data.FromMethods, templates.Option{Value: m.ID, Label: m.Label, Selected: m.ID == s.FromMethod})
		data.ToMethods = append(data.ToMethods, templates.Option{Value: m.ID, Label: m.Label, Selected: m.ID == s.ToMethod})
	}
	for _, st := range cat.StorageTypes {
		data.StorageTypes = append(data.StorageTypes, templates.Option{Value: st.ID, Label: st.Label, Selected: st.ID == s.StorageType})
	}
	for _, b := range cat.DistanceBands {
		data.DistanceBands = append(data.DistanceBands, templates.Option{Value: b.ID, Label: b.Label, Selected: b.ID == s.DistanceBand})
	}

	data.VehicleModes = []templates.Option{
		{Value: string(services.VehicleModeAuto), Label: "자동 추천 차량 사용", Selected: s.VehicleMode != services.VehicleModeManual},
		{Value: string(services.VehicleModeManual), Label: "수동으로 차량 선택", Selected: s.VehicleMode == services.VehicleModeManual},
	}
	data.ManualVehicles = []templates.Option{{Value: "", Label: "선택 안 함", Selected: s.ManualVehicle == ""}}
	for _, name := range cat.AvailableVehicles(s.MoveType) {
		data.ManualVehicles = append(data.ManualVehicles, templates.Option{Value: name, Label: name, Selected: name == s.ManualVehicle})
	}

	for i, ds := range cat.DateSurcharges {
		label := ds.Label
		if ds.Fee > 0 {
			label = fmt.Sprintf("%s (+%s)", ds.Label, services.FormatKRW(ds.Fee))
		} else if ds.BasePercent > 0 {
			label = fmt.Sprintf("%s (+%g%%)", ds.Label, ds.BasePercent)
		}
		data.DateOptions = append(data.DateOptions, templates.DateOption{
			Name:    services.DateOptionKey(i),
			Label:   label,
			Checked: s.DateFlags[i],
		})
	}

	if v.QuoteID != "" {
		for _, name := range s.PhotoNames {
			data.Photos = append(data.Photos, templates.PhotoView{
				Name: name,
				URL:  "/quote/photos/" + url.PathEscape(v.QuoteID) + "/" + url.PathEscape(name),
			})
		}
	}
	return data
}

func moveTypeView(cat *catalog.Catalog, s services.QuoteState, mt catalog.MoveType) templates.MoveTypeView {
	view := templates.MoveTypeView{ID: mt.ID, Label: mt.Label, Active: mt.ID == s.MoveType}
	for _, sec := range mt.Sections {
		sv := templates.SectionView{ID: sec.ID, Label: sec.Label, Waste: sec.Waste, Packing: sec.Packing}
		for _, id := range sec.Items {
			item, ok := cat.Item(id)
			if !ok {
				continue
			}
			key := services.QuantityKey{MoveType: mt.ID, Section: sec.ID, Item: id}
			sv.Items = append(sv.Items, templates.QuantityInput{
				Name:  key.String(),
				Label: item.Label,
				Unit:  item.Unit,
				Qty:   s.Quantity(key),
			})
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func buildResults(cat *catalog.Catalog, res services.Result) templates.ResultsData {
	s := res.State
	q := res.Quote
	r := templates.ResultsData{
		Volume:       services.FormatVolume(s.TotalVolume),
		Weight:       services.FormatWeight(s.TotalWeight),
		Recommended:  res.Recommendation.Vehicle,
		Overflow:     res.Recommendation.Overflow,
		FinalVehicle: s.FinalVehicle,
		Men:          q.Personnel.FinalMen,
		Women:        q.Personnel.FinalWomen,
		Total:        services.FormatKRW(q.Total),
		Deposit:      services.FormatKRW(s.Deposit),
		Remaining:    services.FormatKRW(q.Remaining(s.Deposit)),
		Invalid:      q.Invalid,
		Summary:      services.DispatchSummary(cat, res),
	}
	if price, ok := cat.VehiclePrice(s.MoveType, s.FinalVehicle); ok {
		r.BaseHelpers = price.Housewife
	}
	if !res.Recommendation.None() && !res.Recommendation.Overflow {
		r.RemainingPercent = fmt.Sprintf("%.1f%%", res.Recommendation.RemainingPercent)
	}
	for _, item := range q.Items {
		r.Lines = append(r.Lines, templates.LineView{
			Label:  item.Label,
			Amount: services.FormatKRW(item.Amount),
			Note:   item.Note,
			Error:  item.Label == services.ErrorLabel,
		})
	}
	return r
}
