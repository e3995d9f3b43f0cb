package handlers

import (
	"bytes"
	"context"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"go.uber.org/zap"

	"movequote/catalog"
	"movequote/services"
	"movequote/store"
	"movequote/testhelpers"
)

var kst = time.FixedZone("KST", 9*60*60)

func newTestDeps(t *testing.T) (*Deps, *pocketbase.PocketBase) {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	return &Deps{
		Catalog:  cat,
		Store:    store.NewPocketBaseStore(app, zap.NewNop()),
		Logger:   zap.NewNop(),
		Location: kst,
		Now:      func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, kst) },
	}, app
}

func wardrobeKey() string {
	return services.QuantityKey{MoveType: "home", Section: "furniture", Item: "wardrobe"}.String()
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleIndex_Redirects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := HandleIndex()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/quote" {
		t.Errorf("got %d to %q, want 302 to /quote", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHandleQuoteForm_FullPage(t *testing.T) {
	d, app := newTestDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/quote", nil)
	rec := httptest.NewRecorder()

	if err := HandleQuoteForm(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<html",
		`id="quote-form"`,
		"고객 정보",
		"장롱",
		`value="2026-03-14"`,
		services.ErrorLabel,
	)
}

func TestHandleQuoteForm_HTMXPartial(t *testing.T) {
	d, app := newTestDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/quote", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleQuoteForm(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("HTMX response should not include the page shell")
	}
	testhelpers.AssertHTMLContains(t, body, `id="quote-form"`)
}

func TestHandleQuoteRecalc(t *testing.T) {
	d, app := newTestDeps(t)
	form := url.Values{}
	form.Set(wardrobeKey(), "2")
	req := postForm("/quote/recalc", form)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleQuoteRecalc(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"1톤",
		services.LabelBase,
		"400,000원",
	)
	if got := rec.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("unexpected toast %q", got)
	}
}

func TestHandleQuoteRecalc_BadFieldToast(t *testing.T) {
	d, app := newTestDeps(t)
	form := url.Values{}
	form.Set(services.KeyAddMen, "many")
	req := postForm("/quote/recalc", form)
	rec := httptest.NewRecorder()

	if err := HandleQuoteRecalc(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, "1개") {
		t.Errorf("HX-Trigger = %q, want failure count", got)
	}
}

func multipartQuote(t *testing.T, fields url.Values, photos map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for name, data := range photos {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photos"; filename="`+name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/quote/save", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleQuoteRecalc_BaseHelperOption(t *testing.T) {
	tests := []struct {
		name    string
		vehicle string
		want    bool
	}{
		{"1톤 has no helper", "1톤", false},
		{"5톤 includes one helper", "5톤", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, app := newTestDeps(t)
			form := url.Values{}
			form.Set(wardrobeKey(), "2")
			form.Set(services.KeyVehicleMode, string(services.VehicleModeManual))
			form.Set(services.KeyManualVehicle, tt.vehicle)
			req := postForm("/quote/recalc", form)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()

			if err := HandleQuoteRecalc(d)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			body := rec.Body.String()
			if got := strings.Contains(body, `name="`+services.KeyRemoveBaseHelper+`"`); got != tt.want {
				t.Errorf("helper option shown = %v, want %v", got, tt.want)
			}
			if tt.want {
				testhelpers.AssertHTMLContains(t, body, "기본 여성(1명) 제외")
			}
		})
	}
}

func TestHandleQuoteSave_CreatesThenOverwrites(t *testing.T) {
	d, app := newTestDeps(t)
	fields := url.Values{}
	fields.Set(services.KeyCustomerName, "김이사")
	fields.Set(services.KeyCustomerPhone, "010-1234-5678")
	fields.Set(wardrobeKey(), "2")

	req := multipartQuote(t, fields, map[string][]byte{"room.png": testhelpers.PNG(t, color.White)})
	rec := httptest.NewRecorder()
	if err := HandleQuoteSave(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "260314-5678.json") || !strings.Contains(trigger, "새로 저장") {
		t.Errorf("HX-Trigger = %q, want created toast", trigger)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "260314-5678_사진1.png")

	stored, err := d.Store.Search(context.Background(), "260314")
	if err != nil || len(stored) != 1 {
		t.Fatalf("Search() = %v, %v; want one quote", stored, err)
	}
	loaded, err := d.Store.Load(context.Background(), stored[0].ID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Photos) != 1 {
		t.Errorf("stored photos = %d, want 1", len(loaded.Photos))
	}

	req = multipartQuote(t, fields, nil)
	rec = httptest.NewRecorder()
	if err := HandleQuoteSave(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "덮어썼습니다") {
		t.Errorf("HX-Trigger = %q, want overwrite toast", trigger)
	}
}

func TestHandleQuoteSave_RequiresPhone(t *testing.T) {
	d, app := newTestDeps(t)
	tests := []struct {
		name  string
		phone string
	}{
		{"missing", ""},
		{"too short", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set(services.KeyCustomerPhone, tt.phone)
			req := postForm("/quote/save", form)
			rec := httptest.NewRecorder()

			if err := HandleQuoteSave(d)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap none")
			}
		})
	}
}

func TestHandleQuoteSave_RejectsNonImage(t *testing.T) {
	d, app := newTestDeps(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField(services.KeyCustomerPhone, "010-1234-5678")
	part, _ := w.CreateFormFile("photos", "notes.txt")
	part.Write([]byte("hello"))
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/quote/save", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	if err := HandleQuoteSave(d)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleQuoteSearch(t *testing.T) {
	d, app := newTestDeps(t)
	testhelpers.CreateTestQuote(t, app, "260314-5678.json", []byte(`{}`))
	testhelpers.CreateTestQuote(t, app, "260315-1111.json", []byte(`{}`))

	tests := []struct {
		term    string
		want    []string
		notWant []string
	}{
		{"5678", []string{"260314-5678.json"}, []string{"260315-1111.json"}},
		{"2603", []string{"260314-5678.json", "260315-1111.json"}, nil},
		{"9999", []string{"검색 결과가 없습니다"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quote/search?term="+tt.term, nil)
			rec := httptest.NewRecorder()
			if err := HandleQuoteSearch(d)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			body := rec.Body.String()
			testhelpers.AssertHTMLContains(t, body, tt.want...)
			for _, n := range tt.notWant {
				if strings.Contains(body, n) {
					t.Errorf("body should not contain %q", n)
				}
			}
		})
	}
}

func TestHandleQuoteLoad(t *testing.T) {
	d, app := newTestDeps(t)
	good := testhelpers.CreateTestQuote(t, app, "260314-5678.json",
		[]byte(`{"customer_name":"홍길동","customer_phone":"010-1234-5678","`+wardrobeKey()+`":2}`))
	bad := testhelpers.CreateTestQuote(t, app, "260314-0000.json",
		[]byte(`{"customer_name":"박보관","add_men":"many"}`))

	tests := []struct {
		name      string
		id        string
		wantCode  int
		wantToast string
		wantBody  []string
	}{
		{"clean", good.Id, http.StatusOK, "불러왔습니다", []string{"홍길동", "400,000원"}},
		{"field failures", bad.Id, http.StatusOK, "1개 항목을 기본값으로", []string{"박보관"}},
		{"missing", "nope", http.StatusNotFound, "찾을 수 없습니다", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quote/load/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()

			if err := HandleQuoteLoad(d)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, tt.wantToast) {
				t.Errorf("HX-Trigger = %q, want %q", got, tt.wantToast)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.wantBody...)
		})
	}
}

func TestHandleQuotePhoto(t *testing.T) {
	d, app := newTestDeps(t)
	photos := store.NamePhotos("260314-5678.json", []store.Photo{
		{Name: "a.png", ContentType: "image/png", Data: testhelpers.PNG(t, color.Black)},
	})
	saved, err := d.Store.Save(context.Background(), "260314-5678.json", []byte(`{}`), photos)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	tests := []struct {
		name     string
		photo    string
		wantCode int
	}{
		{"found", photos[0].Name, http.StatusOK},
		{"unknown", "260314-5678_사진9.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quote/photos/x/y", nil)
			req.SetPathValue("id", saved.ID)
			req.SetPathValue("name", tt.photo)
			rec := httptest.NewRecorder()

			if err := HandleQuotePhoto(d)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusOK && rec.Header().Get("Content-Type") != "image/png" {
				t.Errorf("Content-Type = %q, want image/png", rec.Header().Get("Content-Type"))
			}
		})
	}
}
