package store

import (
	"errors"
	"testing"
	"time"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestQuoteFileName(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, kst)
	tests := []struct {
		phone string
		want  string
	}{
		{"010-1234-5678", "260314-5678.json"},
		{"01012345678", "260314-5678.json"},
		{"(02) 555 0001", "260314-0001.json"},
		{"5678", "260314-5678.json"},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got, err := QuoteFileName(tt.phone, now, kst)
			if err != nil {
				t.Fatalf("QuoteFileName(%q) error: %v", tt.phone, err)
			}
			if got != tt.want {
				t.Errorf("QuoteFileName(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestQuoteFileName_UsesLocation(t *testing.T) {
	// 20:00 UTC on the 13th is already the 14th in Seoul.
	now := time.Date(2026, time.March, 13, 20, 0, 0, 0, time.UTC)
	got, err := QuoteFileName("010-1234-5678", now, kst)
	if err != nil {
		t.Fatal(err)
	}
	if got != "260314-5678.json" {
		t.Errorf("QuoteFileName() = %q, want 260314-5678.json", got)
	}
}

func TestQuoteFileName_TooFewDigits(t *testing.T) {
	for _, phone := range []string{"", "-", "12a3", "없음"} {
		if _, err := QuoteFileName(phone, time.Now(), kst); !errors.Is(err, ErrInvalidName) {
			t.Errorf("QuoteFileName(%q) error = %v, want ErrInvalidName", phone, err)
		}
	}
}

func TestPhotoName(t *testing.T) {
	tests := []struct {
		n        int
		original string
		want     string
	}{
		{1, "IMG_0001.JPG", "260314-5678_사진1.jpg"},
		{2, "scan.png", "260314-5678_사진2.png"},
		{3, "noext", "260314-5678_사진3.png"},
	}
	for _, tt := range tests {
		if got := PhotoName("260314-5678.json", tt.n, tt.original); got != tt.want {
			t.Errorf("PhotoName(%d, %q) = %q, want %q", tt.n, tt.original, got, tt.want)
		}
	}
}

func TestNamePhotos_KeepsAtMostFive(t *testing.T) {
	in := make([]Photo, 7)
	for i := range in {
		in[i] = Photo{Name: "a.jpg", Data: []byte{byte(i)}}
	}
	got := NamePhotos("260314-5678.json", in)
	if len(got) != MaxPhotos {
		t.Fatalf("NamePhotos() kept %d, want %d", len(got), MaxPhotos)
	}
	if got[4].Name != "260314-5678_사진5.jpg" || got[4].Data[0] != 4 {
		t.Errorf("fifth photo = %+v", got[4])
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"260314-5678.json", true},
		{"", false},
		{"260314-5678", false},
		{"../260314-5678.json", false},
		{`a\b.json`, false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateName(%q) = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestSecretVersionName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"projects/p1/secrets/drive-key", "projects/p1/secrets/drive-key/versions/latest", false},
		{"projects/p1/secrets/drive-key/versions/3", "projects/p1/secrets/drive-key/versions/3", false},
		{"drive-key", "", true},
		{"projects/p1/keys/drive-key", "", true},
	}
	for _, tt := range tests {
		got, err := secretVersionName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("secretVersionName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("secretVersionName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a_사진1.jpg":  "image/jpeg",
		"a_사진1.JPEG": "image/jpeg",
		"a_사진1.png":  "image/png",
		"a_사진1.webp": "image/webp",
		"a_사진1":      "image/png",
	}
	for name, want := range tests {
		if got := contentTypeFor(name); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEscapeQuery(t *testing.T) {
	if got := escapeQuery(`O'Brien\x`); got != `O\'Brien\\x` {
		t.Errorf("escapeQuery() = %q", got)
	}
}
