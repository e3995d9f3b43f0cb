package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"movequote/services"
)

func TestHandleQuoteExportExcel(t *testing.T) {
	d, app := newTestDeps(t)
	form := url.Values{}
	form.Set(services.KeyCustomerName, "김이사")
	form.Set(services.KeyCustomerPhone, "010-1234-5678")
	form.Set(wardrobeKey(), "2")
	req := postForm("/quote/export/excel", form)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportExcel(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("bad Content-Disposition: %v", err)
	}
	if params["filename"] != "5678_260314_Final견적서.xlsx" {
		t.Errorf("filename = %q, want 5678_260314_Final견적서.xlsx", params["filename"])
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(services.SheetInfo, "B1"); v != "김이사" {
		t.Errorf("customer cell = %q, want 김이사", v)
	}
}

func TestHandleQuoteExportExcel_PhoneFallback(t *testing.T) {
	d, app := newTestDeps(t)
	req := postForm("/quote/export/excel", url.Values{})
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportExcel(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	_, params, _ := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if params["filename"] != "0000_260314_Final견적서.xlsx" {
		t.Errorf("filename = %q, want 0000_260314_Final견적서.xlsx", params["filename"])
	}
}

func TestHandleQuoteExportPDF(t *testing.T) {
	d, app := newTestDeps(t)
	form := url.Values{}
	form.Set(services.KeyCustomerPhone, "010-1234-5678")
	form.Set(wardrobeKey(), "2")
	req := postForm("/quote/export/pdf", form)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportPDF(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("response is not a PDF")
	}
	_, params, _ := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if params["filename"] != "5678_260314_1000_이삿날견적서.pdf" {
		t.Errorf("filename = %q, want 5678_260314_1000_이삿날견적서.pdf", params["filename"])
	}
}

func TestHandleQuoteExportPDF_RefusesInvalid(t *testing.T) {
	d, app := newTestDeps(t)
	req := postForm("/quote/export/pdf", url.Values{})
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportPDF(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "PDF") {
		t.Errorf("HX-Trigger = %q, want PDF refusal toast", rec.Header().Get("HX-Trigger"))
	}
}
