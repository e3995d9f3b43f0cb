// Package config loads application settings and builds the shared logger.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Store backends.
const (
	BackendPocketBase = "pocketbase"
	BackendDrive      = "drive"
	BackendGCS        = "gcs"
)

type DriveConfig struct {
	FolderID          string `mapstructure:"folder_id"`
	CredentialsFile   string `mapstructure:"credentials_file"`
	CredentialsSecret string `mapstructure:"credentials_secret"`
}

type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Drive   DriveConfig `mapstructure:"drive"`
	GCS     GCSConfig   `mapstructure:"gcs"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

type PDFConfig struct {
	FontPath string `mapstructure:"font_path"`
}

type Config struct {
	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`
	Store    StoreConfig `mapstructure:"store"`
	Timezone string      `mapstructure:"timezone"`
	Log      LogConfig   `mapstructure:"log"`
	PDF      PDFConfig   `mapstructure:"pdf"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "")
	v.SetDefault("store.backend", BackendPocketBase)
	v.SetDefault("store.drive.folder_id", "")
	v.SetDefault("store.drive.credentials_file", "")
	v.SetDefault("store.drive.credentials_secret", "")
	v.SetDefault("store.gcs.bucket", "")
	v.SetDefault("store.gcs.prefix", "quotes/")
	v.SetDefault("store.gcs.credentials_file", "")
	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
	v.SetDefault("pdf.font_path", "")
}

// Load reads defaults, then the optional file at path, then MOVEQUOTE_*
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MOVEQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPocketBase:
	case BackendDrive:
		if c.Store.Drive.FolderID == "" {
			return fmt.Errorf("store.drive.folder_id is required for the drive backend")
		}
	case BackendGCS:
		if c.Store.GCS.Bucket == "" {
			return fmt.Errorf("store.gcs.bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured quote timezone. Validate has already
// checked the name, so the fallback only covers hand-built configs.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// NewLogger builds a zap logger from the log settings.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
