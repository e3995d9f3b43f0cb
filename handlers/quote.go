package handlers

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"movequote/services"
	"movequote/templates"
)

// HandleIndex redirects to the quotation form.
func HandleIndex() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.Redirect(http.StatusFound, "/quote")
	}
}

// HandleQuoteForm renders the form with a fresh default state.
func HandleQuoteForm(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := services.NewQuoteState(d.Catalog, d.today())
		res := services.Recompute(d.Catalog, s, s)
		return renderQuote(e, buildFormData(d.Catalog, res, quoteView{}))
	}
}

// HandleQuoteRecalc recomputes the posted form and re-renders it.
func HandleQuoteRecalc(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, failures, err := d.stateFromRequest(e)
		if err != nil {
			d.log(e).Warn("recalc: bad form", zap.Error(err))
			return ErrorToast(e, http.StatusBadRequest, "입력을 읽을 수 없습니다")
		}

		// The hidden final vehicle is what the user saw last.
		res := services.Recompute(d.Catalog, s, s)

		if len(failures) > 0 {
			d.log(e).Debug("recalc: fields reset to defaults", zap.Any("failures", failures))
			SetToast(e, "error", fmt.Sprintf("잘못된 입력 %d개를 기본값으로 바꿨습니다", len(failures)))
		}

		return renderQuote(e, buildFormData(d.Catalog, res, quoteView{QuoteID: e.Request.FormValue("quote_id")}))
	}
}

// renderQuote renders the form partial for HTMX requests and the whole
// page otherwise.
func renderQuote(e *core.RequestEvent, data templates.QuoteFormData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.QuoteFormContent(data)
	} else {
		component = templates.QuotePage(data)
	}
	e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(e.Request.Context(), e.Response)
}
