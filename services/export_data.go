package services

import (
	"fmt"
	"time"

	"movequote/catalog"
)

// InfoRow is one label/value pair on the quote information sheet.
type InfoRow struct {
	Label string
	Value string
}

// QuoteExport holds everything the spreadsheet and PDF renderers need.
type QuoteExport struct {
	Title       string
	FileBase    string
	PhoneSuffix string
	Created     time.Time
	CreatedDate string
	Info        []InfoRow
	Items       []CostLineItem
	Total       int64
	Deposit     int64
	Remaining   int64
	Invalid     bool
	Summary     []string
}

// ExcelFileName is the staff spreadsheet name, NNNN_YYMMDD_Final견적서.xlsx.
func (e QuoteExport) ExcelFileName() string {
	return e.PhoneSuffix + "_" + e.Created.Format("060102") + "_Final견적서.xlsx"
}

// PDFFileName is the customer copy name, NNNN_YYMMDD_HHMM_이삿날견적서.pdf.
func (e QuoteExport) PDFFileName() string {
	return e.PhoneSuffix + "_" + e.Created.Format("060102_1504") + "_이삿날견적서.pdf"
}

// BuildQuoteExport collects the document data for a recomputed quote.
func BuildQuoteExport(cat *catalog.Catalog, res Result, fileBase string, now time.Time) QuoteExport {
	s := res.State

	moveLabel := s.MoveType
	if mt, ok := cat.MoveType(s.MoveType); ok {
		moveLabel = mt.Label
	}

	info := []InfoRow{
		{"고객명", s.CustomerName},
		{"연락처", s.CustomerPhone},
		{"이사 종류", moveLabel},
		{"이사일", s.MovingDate.Format(dateLayout)},
		{"출발지 주소", s.FromLocation},
		{"출발지 층수", s.FromFloor},
		{"출발지 작업 방법", methodLabel(cat, s.FromMethod)},
		{"도착지 주소", s.ToLocation},
		{"도착지 층수", s.ToFloor},
		{"도착지 작업 방법", methodLabel(cat, s.ToMethod)},
	}
	if s.IsStorageMove {
		storage := s.StorageType
		if st, ok := cat.StorageType(s.StorageType); ok {
			storage = st.Label
		}
		info = append(info, InfoRow{"보관 이사", fmt.Sprintf("%s %d일", storage, s.StorageDays)})
	}
	if s.LongDistance {
		band := s.DistanceBand
		if b, ok := cat.DistanceBand(s.DistanceBand); ok {
			band = b.Label
		}
		info = append(info, InfoRow{"장거리", band})
	}
	info = append(info,
		InfoRow{"총 부피", FormatVolume(s.TotalVolume)},
		InfoRow{"총 무게", FormatWeight(s.TotalWeight)},
		InfoRow{"추천 차량", s.RecommendedVehicle},
		InfoRow{"선택 차량", s.FinalVehicle},
		InfoRow{"최종 인원", fmt.Sprintf("남 %d명 / 여 %d명", res.Quote.Personnel.FinalMen, res.Quote.Personnel.FinalWomen)},
	)
	if s.HasWaste {
		info = append(info, InfoRow{"폐기물", FormatTons(s.WasteTons)})
	}
	info = append(info, itemRows(cat, s)...)
	if s.SpecialNotes != "" {
		info = append(info, InfoRow{"고객요구사항", s.SpecialNotes})
	}

	return QuoteExport{
		Title:       fmt.Sprintf("이사 견적서 - %s", s.CustomerName),
		FileBase:    fileBase,
		PhoneSuffix: PhoneSuffix(s.CustomerPhone),
		Created:     now,
		CreatedDate: now.Format(dateLayout),
		Info:        info,
		Items:       res.Quote.Items,
		Total:       res.Quote.Total,
		Deposit:     s.Deposit,
		Remaining:   res.Quote.Remaining(s.Deposit),
		Invalid:     res.Quote.Invalid,
		Summary:     DispatchSummary(cat, res),
	}
}

// itemRows lists the non-zero counters of the current move type in
// catalog order, waste sections included.
func itemRows(cat *catalog.Catalog, s QuoteState) []InfoRow {
	mt, ok := cat.MoveType(s.MoveType)
	if !ok {
		return nil
	}
	var rows []InfoRow
	for _, section := range mt.Sections {
		for _, id := range section.Items {
			qty := s.Quantity(QuantityKey{MoveType: s.MoveType, Section: section.ID, Item: id})
			if qty <= 0 {
				continue
			}
			item, ok := cat.Item(id)
			if !ok {
				continue
			}
			rows = append(rows, InfoRow{
				Label: fmt.Sprintf("%s / %s", section.Label, item.Label),
				Value: fmt.Sprintf("%d%s", qty, item.Unit),
			})
		}
	}
	return rows
}

func methodLabel(cat *catalog.Catalog, id string) string {
	if m, ok := cat.AccessMethod(id); ok {
		return m.Label
	}
	return id
}
