package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Backend != BackendPocketBase {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendPocketBase)
	}
	if cfg.Timezone != "Asia/Seoul" {
		t.Errorf("Timezone = %q, want Asia/Seoul", cfg.Timezone)
	}
	if cfg.Store.GCS.Prefix != "quotes/" {
		t.Errorf("Store.GCS.Prefix = %q", cfg.Store.GCS.Prefix)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movequote.yaml")
	body := "store:\n  backend: gcs\n  gcs:\n    bucket: quotes-bucket\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MOVEQUOTE_STORE_GCS_PREFIX", "env-prefix/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Backend != BackendGCS || cfg.Store.GCS.Bucket != "quotes-bucket" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.GCS.Prefix != "env-prefix/" {
		t.Errorf("env override not applied, prefix = %q", cfg.Store.GCS.Prefix)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"pocketbase ok", Config{Store: StoreConfig{Backend: BackendPocketBase}, Timezone: "UTC"}, false},
		{"drive without folder", Config{Store: StoreConfig{Backend: BackendDrive}, Timezone: "UTC"}, true},
		{"gcs without bucket", Config{Store: StoreConfig{Backend: BackendGCS}, Timezone: "UTC"}, true},
		{"unknown backend", Config{Store: StoreConfig{Backend: "ftp"}, Timezone: "UTC"}, true},
		{"bad timezone", Config{Store: StoreConfig{Backend: BackendPocketBase}, Timezone: "Mars/Base"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "info"}); err != nil {
		t.Errorf("NewLogger(info) error: %v", err)
	}
	if _, err := NewLogger(LogConfig{Level: "debug", Dev: true}); err != nil {
		t.Errorf("NewLogger(dev) error: %v", err)
	}
	if _, err := NewLogger(LogConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
