package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return buf.String()
}

func sampleForm() QuoteFormData {
	return QuoteFormData{
		QuoteID:   "rec1",
		QuoteName: "260314-5678.json",
		Values: map[string]string{
			"customer_name": `<b>"김"</b>`,
			"moving_date":   "2026-03-14",
		},
		Checked:   map[string]bool{"is_storage_move": true},
		MoveTypes: []Option{{Value: "home", Label: "가정 이사", Selected: true}, {Value: "office", Label: "사무실 이사"}},
		Sections: []MoveTypeView{
			{ID: "home", Label: "가정 이사", Active: true, Sections: []SectionView{
				{ID: "furniture", Label: "가구", Items: []QuantityInput{{Name: "qty:home:furniture:wardrobe", Label: "장롱", Unit: "칸", Qty: 2}}},
			}},
			{ID: "office", Label: "사무실 이사", Sections: []SectionView{
				{ID: "office_furniture", Label: "사무용 가구", Items: []QuantityInput{{Name: "qty:office:office_furniture:safe", Label: "금고", Unit: "개", Qty: 1}}},
			}},
		},
		PhotoNames: []string{"260314-5678_사진1.png"},
		Photos:     []PhotoView{{Name: "260314-5678_사진1.png", URL: "/quote/photos/rec1/x.png"}},
		Results: ResultsData{
			Recommended:  "1톤",
			FinalVehicle: "1톤",
			Lines:        []LineView{{Label: "기본 운임", Amount: "400,000원", Note: "1톤"}},
			Total:        "400,000원",
		},
	}
}

func TestQuotePage_Shell(t *testing.T) {
	body := render(t, QuotePage(sampleForm()))
	if !strings.HasPrefix(strings.ToLower(body), "<!doctype html>") {
		t.Errorf("page should start with the doctype, got %.40q", body)
	}
	for _, want := range []string{"htmx.org", `id="quote-form"`, "showToast", "<title>이사 견적</title>"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestQuoteFormContent(t *testing.T) {
	body := render(t, QuoteFormContent(sampleForm()))

	tests := []struct {
		name string
		want string
	}{
		{"escapes values", "&lt;b&gt;&#34;김&#34;&lt;/b&gt;"},
		{"quote id", `name="quote_id" id="quote_id" value="rec1"`},
		{"photo names kept", `name="uploaded_image_filenames" value="260314-5678_사진1.png"`},
		{"photo link", `src="/quote/photos/rec1/x.png"`},
		{"counter", `name="qty:home:furniture:wardrobe"`},
		{"inactive counters hidden", `type="hidden" name="qty:office:office_furniture:safe"`},
		{"result line", "400,000원"},
		{"quote name", "260314-5678.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(body, tt.want) {
				t.Errorf("form missing %q", tt.want)
			}
		})
	}
	if strings.Contains(strings.ToLower(body), "<!doctype") {
		t.Error("partial should not include the page shell")
	}
	if strings.Contains(body, `<b>"김"</b>`) {
		t.Error("customer name rendered unescaped")
	}
}

func TestQuoteFormContent_PDFDisabledWhenInvalid(t *testing.T) {
	data := sampleForm()
	data.Results.Invalid = true
	body := render(t, QuoteFormContent(data))
	if !strings.Contains(body, `formaction="/quote/export/pdf" disabled`) {
		t.Error("PDF button should be disabled for an invalid quote")
	}
}

func TestQuoteFormContent_BaseHelperOption(t *testing.T) {
	tests := []struct {
		name    string
		helpers int
		checked bool
		want    []string
		notWant []string
	}{
		{"no helper in base crew", 0, false, nil, []string{`name="remove_base_housewife"`, "기본 여성"}},
		{"one helper", 1, false, []string{`name="remove_base_housewife" value="true">`, "기본 여성(1명) 제외"}, nil},
		{"checked", 2, true, []string{`name="remove_base_housewife" value="true" checked>`, "기본 여성(2명) 제외"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := sampleForm()
			data.Results.BaseHelpers = tt.helpers
			data.Checked["remove_base_housewife"] = tt.checked
			body := render(t, QuoteFormContent(data))
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("form missing %q", w)
				}
			}
			for _, n := range tt.notWant {
				if strings.Contains(body, n) {
					t.Errorf("form should not contain %q", n)
				}
			}
		})
	}
}

func TestQuoteResults_ErrorLine(t *testing.T) {
	body := render(t, QuoteResults(ResultsData{
		Lines: []LineView{{Label: "오류", Note: "차량 미선택", Error: true}},
	}))
	for _, want := range []string{`<tr class="error">`, "차량 미선택", "없음", "미선택"} {
		if !strings.Contains(body, want) {
			t.Errorf("results missing %q", want)
		}
	}
}

func TestQuoteResults_Recommendation(t *testing.T) {
	tests := []struct {
		name string
		data ResultsData
		want string
	}{
		{"remaining room", ResultsData{Recommended: "1톤", RemainingPercent: "52.0%"}, "(여유 52.0%)"},
		{"overflow", ResultsData{Recommended: "20톤 초과", Overflow: true}, "적재 용량 초과"},
		{"summary lines", ResultsData{Summary: []string{"010-1234-5678", "1톤: 1대"}}, "010-1234-5678\n1톤: 1대"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if body := render(t, QuoteResults(tt.data)); !strings.Contains(body, tt.want) {
				t.Errorf("QuoteResults() = %q, want it to contain %q", body, tt.want)
			}
		})
	}
}

func TestQuoteSearchResults(t *testing.T) {
	tests := []struct {
		name string
		data SearchData
		want string
	}{
		{"hits", SearchData{Term: "5678", Results: []SearchRef{{ID: "r1", Name: "260314-5678.json"}}}, `hx-get="/quote/load/r1"`},
		{"empty", SearchData{Term: "9999"}, "검색 결과가 없습니다"},
		{"error", SearchData{Term: "x", Error: "검색하지 못했습니다"}, "검색하지 못했습니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if body := render(t, QuoteSearchResults(tt.data)); !strings.Contains(body, tt.want) {
				t.Errorf("QuoteSearchResults() = %q, want it to contain %q", body, tt.want)
			}
		})
	}
}
