package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"movequote/services"
	"movequote/store"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// exportFromRequest recomputes the posted form and prepares the document
// data. The file base falls back to 0000 when the phone has too few digits.
func (d *Deps) exportFromRequest(e *core.RequestEvent) (services.QuoteExport, error) {
	s, _, err := d.stateFromRequest(e)
	if err != nil {
		return services.QuoteExport{}, err
	}
	res := services.Recompute(d.Catalog, s, s)

	now := d.now()
	base, err := store.QuoteBaseName(s.CustomerPhone, now, d.Location)
	if err != nil {
		base = now.Format("060102") + "-0000"
	}
	return services.BuildQuoteExport(d.Catalog, res, base, now), nil
}

// HandleQuoteExportExcel downloads the posted quote as a spreadsheet.
func HandleQuoteExportExcel(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.exportFromRequest(e)
		if err != nil {
			d.log(e).Warn("export_excel: bad form", zap.Error(err))
			return e.String(http.StatusBadRequest, "입력을 읽을 수 없습니다")
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			d.log(e).Error("export_excel: failed to generate", zap.Error(err))
			return e.String(http.StatusInternalServerError, "엑셀 파일을 만들지 못했습니다")
		}

		return writeDownload(e, contentTypeXLSX, data.ExcelFileName(), xlsxBytes)
	}
}

// HandleQuoteExportPDF downloads the posted quote as a PDF. A quote
// without a valid base price is refused.
func HandleQuoteExportPDF(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.exportFromRequest(e)
		if err != nil {
			d.log(e).Warn("export_pdf: bad form", zap.Error(err))
			return e.String(http.StatusBadRequest, "입력을 읽을 수 없습니다")
		}

		pdfBytes, err := services.GenerateQuotePDF(data, d.PDF)
		if err != nil {
			if errors.Is(err, services.ErrInvalidQuote) {
				return ErrorToast(e, http.StatusUnprocessableEntity, "기본 운임이 없는 견적은 PDF로 만들 수 없습니다")
			}
			d.log(e).Error("export_pdf: failed to generate", zap.Error(err))
			return e.String(http.StatusInternalServerError, "PDF 파일을 만들지 못했습니다")
		}

		return writeDownload(e, contentTypePDF, data.PDFFileName(), pdfBytes)
	}
}

func writeDownload(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}
