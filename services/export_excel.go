package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the quote workbook.
const (
	SheetInfo = "견적 정보"
	SheetCost = "비용 내역 및 요약"
)

// Cost sheet labels for the summary rows.
const (
	LabelTotal     = "총 견적 비용"
	LabelDeposit   = "계약금"
	LabelRemaining = "잔금"
)

// GenerateQuoteExcel creates the two-sheet quote workbook: move details on
// the first sheet, line items with total, deposit and balance on the second.
func GenerateQuoteExcel(data QuoteExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetInfo); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(SheetCost); err != nil {
		return nil, fmt.Errorf("create cost sheet: %w", err)
	}

	styles, err := newQuoteStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeInfoSheet(f, styles, data); err != nil {
		return nil, err
	}
	if err := writeCostSheet(f, styles, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type quoteStyles struct {
	header, cell, amount, totalLabel, totalAmount int
}

func newQuoteStyles(f *excelize.File) (quoteStyles, error) {
	var s quoteStyles
	var err error

	// White on charcoal, centered.
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	if s.cell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}

	// #,##0
	if s.amount, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		NumFmt: 3,
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create amount style: %w", err)
	}

	if s.totalLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create total label style: %w", err)
	}

	if s.totalAmount, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: 3,
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create total amount style: %w", err)
	}
	return s, nil
}

func writeInfoSheet(f *excelize.File, st quoteStyles, data QuoteExport) error {
	sheet := SheetInfo
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	// Label/value pairs start at row 1 so the sheet reads back as a
	// two-column table.
	for i, r := range data.Info {
		row := i + 1
		a, b := fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row)
		f.SetCellValue(sheet, a, sanitizeExcelCell(r.Label))
		f.SetCellValue(sheet, b, sanitizeExcelCell(r.Value))
		f.SetCellStyle(sheet, a, b, st.cell)
	}
	return nil
}

func writeCostSheet(f *excelize.File, st quoteStyles, data QuoteExport) error {
	sheet := SheetCost
	widths := map[string]float64{"A": 28, "B": 16, "C": 36}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headers := []string{"항목", "금액", "비고"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	f.SetCellStyle(sheet, "A1", "C1", st.header)

	row := 2
	for _, it := range data.Items {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+r, sanitizeExcelCell(it.Label))
		f.SetCellValue(sheet, "B"+r, it.Amount)
		f.SetCellValue(sheet, "C"+r, sanitizeExcelCell(it.Note))
		f.SetCellStyle(sheet, "A"+r, "A"+r, st.cell)
		f.SetCellStyle(sheet, "B"+r, "B"+r, st.amount)
		f.SetCellStyle(sheet, "C"+r, "C"+r, st.cell)
		row++
	}

	totals := []struct {
		label  string
		amount int64
	}{
		{LabelTotal, data.Total},
		{LabelDeposit, data.Deposit},
		{LabelRemaining, data.Remaining},
	}
	for _, t := range totals {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+r, t.label)
		f.SetCellValue(sheet, "B"+r, t.amount)
		f.SetCellStyle(sheet, "A"+r, "A"+r, st.totalLabel)
		f.SetCellStyle(sheet, "B"+r, "B"+r, st.totalAmount)
		row++
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
