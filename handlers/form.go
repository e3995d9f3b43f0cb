package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"movequote/services"
	"movequote/store"
)

const (
	maxFormBytes  = 32 << 20
	maxPhotoBytes = 10 << 20
	photoField    = "photos"
)

// parseQuoteForm accepts both multipart and urlencoded bodies.
func parseQuoteForm(e *core.RequestEvent) error {
	err := e.Request.ParseMultipartForm(maxFormBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return e.Request.ParseForm()
	}
	return err
}

// formRecord turns posted form values into a record for
// services.DecodeRecord. Empty values are dropped so the field keeps its
// default.
func formRecord(form url.Values) map[string]any {
	rec := make(map[string]any, len(form))
	for key, values := range form {
		if key == services.KeyPhotoNames {
			rec[key] = values
			continue
		}
		if len(values) == 0 {
			continue
		}
		v := strings.TrimSpace(values[0])
		if v == "" {
			continue
		}
		rec[key] = v
	}
	return rec
}

// stateFromRequest decodes the posted form into a quote state.
func (d *Deps) stateFromRequest(e *core.RequestEvent) (services.QuoteState, []services.FieldError, error) {
	if err := parseQuoteForm(e); err != nil {
		return services.QuoteState{}, nil, fmt.Errorf("parse form: %w", err)
	}
	s, failures := services.DecodeRecord(d.Catalog, formRecord(e.Request.Form), d.today())
	return s, failures, nil
}

// uploadedPhotos reads the image files of the photos field, keeping at
// most store.MaxPhotos.
func uploadedPhotos(e *core.RequestEvent) ([]store.Photo, error) {
	if e.Request.MultipartForm == nil {
		return nil, nil
	}
	headers := e.Request.MultipartForm.File[photoField]
	var photos []store.Photo
	for _, fh := range headers {
		if len(photos) == store.MaxPhotos {
			break
		}
		if fh.Size == 0 {
			continue
		}
		if fh.Size > maxPhotoBytes {
			return nil, fmt.Errorf("%s: 파일이 너무 큽니다", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		// The browser's Content-Type is not trusted.
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, fmt.Errorf("%s: 이미지 파일만 올릴 수 있습니다", fh.Filename)
		}
		photos = append(photos, store.Photo{Name: fh.Filename, ContentType: mt.String(), Data: data})
	}
	return photos, nil
}

// validateForSave checks what a saved quote needs beyond the calculator.
func validateForSave(s services.QuoteState) error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.CustomerPhone,
			validation.Required.Error("전화번호를 입력하세요"),
			validation.By(func(v any) error {
				if len(services.PhoneDigits(v.(string))) < 4 {
					return errors.New("전화번호 끝 4자리가 필요합니다")
				}
				return nil
			}),
		),
	)
}

// firstValidationMessage flattens an ozzo error into one line for a toast.
func firstValidationMessage(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			return e.Error()
		}
	}
	return err.Error()
}
