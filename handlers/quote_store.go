package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"movequote/services"
	"movequote/store"
	"movequote/templates"
)

// HandleQuoteSave stores the posted quote under its YYMMDD-NNNN.json name
// together with any uploaded photos.
func HandleQuoteSave(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := d.log(e).Named("quote_save")

		s, _, err := d.stateFromRequest(e)
		if err != nil {
			log.Warn("bad form", zap.Error(err))
			return ErrorToast(e, http.StatusBadRequest, "입력을 읽을 수 없습니다")
		}
		res := services.Recompute(d.Catalog, s, s)

		if err := validateForSave(res.State); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, firstValidationMessage(err))
		}

		name, err := store.QuoteFileName(res.State.CustomerPhone, d.now(), d.Location)
		if err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "전화번호 끝 4자리가 필요합니다")
		}

		uploads, err := uploadedPhotos(e)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		photos := store.NamePhotos(name, uploads)

		state := res.State.Clone()
		if len(photos) > 0 {
			state.PhotoNames = make([]string, len(photos))
			for i, p := range photos {
				state.PhotoNames[i] = p.Name
			}
		}

		data, err := services.EncodeState(state)
		if err != nil {
			log.Error("encode", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "견적을 저장하지 못했습니다")
		}

		saved, err := d.Store.Save(e.Request.Context(), name, data, photos)
		if err != nil {
			log.Error("store save failed", zap.String("name", name), zap.Error(err))
			return ErrorToast(e, http.StatusBadGateway, "견적을 저장하지 못했습니다")
		}

		msg := fmt.Sprintf("'%s' 새로 저장했습니다", saved.Name)
		if saved.Status == store.StatusUpdated {
			msg = fmt.Sprintf("'%s' 덮어썼습니다", saved.Name)
		}
		if len(photos) > 0 {
			msg += fmt.Sprintf(" (사진 %d장)", len(photos))
		}
		SetToast(e, "success", msg)

		res.State = state
		return renderQuote(e, buildFormData(d.Catalog, res, quoteView{QuoteID: saved.ID, QuoteName: saved.Name}))
	}
}

// HandleQuoteSearch lists stored quotes whose name contains term.
func HandleQuoteSearch(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		term := strings.TrimSpace(e.Request.URL.Query().Get("term"))
		data := templates.SearchData{Term: term}

		if term != "" {
			refs, err := d.Store.Search(e.Request.Context(), term)
			if err != nil {
				d.log(e).Error("quote_search: store search failed", zap.String("term", term), zap.Error(err))
				data.Error = "검색하지 못했습니다"
			}
			for _, r := range refs {
				data.Results = append(data.Results, templates.SearchRef{ID: r.ID, Name: r.Name})
			}
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.QuoteSearchResults(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteLoad replaces the form with a stored quote. Fields that fail
// to parse keep their defaults and are counted in a toast.
func HandleQuoteLoad(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := d.log(e).Named("quote_load")

		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		stored, err := d.Store.Load(e.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "견적을 찾을 수 없습니다")
			}
			log.Error("store load failed", zap.String("id", id), zap.Error(err))
			return ErrorToast(e, http.StatusBadGateway, "견적을 불러오지 못했습니다")
		}

		s, failures, err := services.DecodeState(d.Catalog, stored.Data, d.today())
		if err != nil {
			log.Warn("stored quote is not a record", zap.String("id", id), zap.Error(err))
			return ErrorToast(e, http.StatusUnprocessableEntity, "저장된 견적 형식이 올바르지 않습니다")
		}
		if len(s.PhotoNames) == 0 && len(stored.Photos) > 0 {
			for _, p := range stored.Photos {
				s.PhotoNames = append(s.PhotoNames, p.Name)
			}
		}

		// The saved final vehicle counts as already shown, so loading does
		// not replace the saved basket counts.
		res := services.Recompute(d.Catalog, s, s)

		if len(failures) > 0 {
			log.Info("loaded with field failures", zap.String("id", id), zap.Any("failures", failures))
			SetToast(e, "error", fmt.Sprintf("'%s' 불러옴: %d개 항목을 기본값으로 대체했습니다", stored.Name, len(failures)))
		} else {
			SetToast(e, "success", fmt.Sprintf("'%s' 불러왔습니다", stored.Name))
		}

		return renderQuote(e, buildFormData(d.Catalog, res, quoteView{QuoteID: stored.ID, QuoteName: stored.Name}))
	}
}

// HandleQuotePhoto serves one photo of a stored quote.
func HandleQuotePhoto(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		name := e.Request.PathValue("name")
		if id == "" || name == "" {
			return e.String(http.StatusBadRequest, "Missing photo")
		}

		p, err := d.Store.Photo(e.Request.Context(), id, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return e.String(http.StatusNotFound, "Photo not found")
			}
			d.log(e).Error("quote_photo: store failed", zap.String("id", id), zap.String("name", name), zap.Error(err))
			return e.String(http.StatusBadGateway, "Failed to load photo")
		}

		return e.Blob(http.StatusOK, p.ContentType, p.Data)
	}
}
