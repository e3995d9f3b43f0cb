package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"movequote/catalog"
	"movequote/services"
)

func runQuoteCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	cmd := newQuoteCmd(cat, time.UTC)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeQuoteFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "260314-5678.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write quote file: %v", err)
	}
	return path
}

func TestQuoteCalc(t *testing.T) {
	key := services.QuantityKey{MoveType: "home", Section: "furniture", Item: "wardrobe"}.String()
	path := writeQuoteFile(t, `{"customer_phone":"010-1234-5678","deposit_amount":100000,"`+key+`":2}`)

	out, _, err := runQuoteCmd(t, "calc", path, "--summary")
	if err != nil {
		t.Fatalf("calc returned error: %v", err)
	}
	for _, want := range []string{"1톤", services.LabelBase, "400,000원", "잔금", "300,000원", "010-1234-5678"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteCalc_WarnsOnBadFields(t *testing.T) {
	path := writeQuoteFile(t, `{"add_men":"many"}`)

	out, errOut, err := runQuoteCmd(t, "calc", path)
	if err != nil {
		t.Fatalf("calc returned error: %v", err)
	}
	if !strings.Contains(errOut, "add_men") {
		t.Errorf("stderr = %q, want add_men warning", errOut)
	}
	if !strings.Contains(out, services.ErrorLabel) {
		t.Errorf("output = %q, want the error line", out)
	}
}

func TestQuoteCalc_Excel(t *testing.T) {
	path := writeQuoteFile(t, `{"customer_name":"김이사"}`)
	xlsx := filepath.Join(t.TempDir(), "out.xlsx")

	if _, _, err := runQuoteCmd(t, "calc", path, "--excel", xlsx); err != nil {
		t.Fatalf("calc returned error: %v", err)
	}
	if info, err := os.Stat(xlsx); err != nil || info.Size() == 0 {
		t.Errorf("expected spreadsheet at %s: %v", xlsx, err)
	}
}

func TestQuoteCalc_NotJSON(t *testing.T) {
	path := writeQuoteFile(t, `not json`)
	if _, _, err := runQuoteCmd(t, "calc", path); err == nil {
		t.Error("expected an error for a non-JSON file")
	}
}
