package services

import (
	"errors"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
)

// ErrInvalidQuote is returned when a document is requested for a quote
// whose base price could not be determined.
var ErrInvalidQuote = errors.New("quote has no valid base price")

const pdfFontFamily = "quote-font"

// PDFOptions configures the PDF renderer. FontPath points to a TrueType
// font with Hangul glyphs; without it the built-in font is used.
type PDFOptions struct {
	FontPath string
}

// GenerateQuotePDF renders the customer-facing quote as a PDF.
func GenerateQuotePDF(data QuoteExport, opts PDFOptions) ([]byte, error) {
	if data.Invalid {
		return nil, ErrInvalidQuote
	}

	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		})

	if opts.FontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(pdfFontFamily, fontstyle.Normal, opts.FontPath).
			AddUTF8Font(pdfFontFamily, fontstyle.Bold, opts.FontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load pdf font %s: %w", opts.FontPath, err)
		}
		builder = builder.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: pdfFontFamily})
	}

	m := maroto.New(builder.Build())

	addQuoteHeader(m, data)
	addInfoTable(m, data.Info)
	addCostTable(m, data.Items)
	addQuoteTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

var (
	pdfGray      = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfSummaryBg = &props.Color{Red: 240, Green: 240, Blue: 240}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

func addQuoteHeader(m core.Maroto, data QuoteExport) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New(data.FileBase, props.Text{Size: 9, Align: align.Left, Color: pdfGray}),
			),
			col.New(6).Add(
				text.New(data.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: pdfGray}),
			),
		),
		row.New(4),
	)
}

func addInfoTable(m core.Maroto, info []InfoRow) {
	labelText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	valueText := props.Text{Size: 8, Align: align.Left}
	labelCell := &props.Cell{BackgroundColor: pdfSummaryBg}

	for _, r := range info {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(r.Label, labelText)).WithStyle(labelCell),
				col.New(8).Add(text.New(r.Value, valueText)),
			),
		)
	}
	m.AddRows(row.New(6))
}

func addCostTable(m core.Maroto, items []CostLineItem) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: pdfWhite,
	}
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(5).Add(text.New("항목", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("금액", headerText)).WithStyle(headerCell),
			col.New(4).Add(text.New("비고", headerText)).WithStyle(headerCell),
		),
	)

	leftText := props.Text{Size: 8, Align: align.Left}
	rightText := props.Text{Size: 8, Align: align.Right}
	for _, it := range items {
		m.AddRows(
			row.New(7).Add(
				col.New(5).Add(text.New(it.Label, leftText)),
				col.New(3).Add(text.New(FormatKRW(it.Amount), rightText)),
				col.New(4).Add(text.New(it.Note, leftText)),
			),
		)
	}
}

func addQuoteTotals(m core.Maroto, data QuoteExport) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: pdfSummaryBg}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	totals := []struct {
		label  string
		amount int64
	}{
		{LabelTotal, data.Total},
		{LabelDeposit, data.Deposit},
		{LabelRemaining, data.Remaining},
	}
	for _, t := range totals {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(t.label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatKRW(t.amount), valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}
