package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"attendance-capture/internal/email"
)

const DEFAULT_SUPPORT_URL = "https://github.com/isoteemu/attendance-capture"
const QR_IMAGE_SIZE = 512

type UploadConfig struct {
	// Image host account, e.g. Cloudinary cloud name
	CloudName    string `mapstructure:"cloud_name"`
	APIKey       string `mapstructure:"api_key"`
	UploadPreset string `mapstructure:"upload_preset"`
	// Endpoint template. %s is replaced with the cloud name.
	Endpoint string `mapstructure:"endpoint"`
}

type RelayConfig struct {
	// Spreadsheet-backed endpoint the composed record is POSTed to
	ScriptURL string `mapstructure:"script_url"`
}

type CacheConfig struct {
	// Path to the asset manifest (version + asset paths)
	ManifestFile string `mapstructure:"manifest_file"`
	// Base URL assets are fetched from at install time
	AssetOrigin string `mapstructure:"asset_origin"`
}

type Config struct {
	// Secret key for signing install offer tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for install offer tokens in seconds
	TokenTTL uint `mapstructure:"token_ttl"`

	NonceStore string `mapstructure:"nonce_store"`
	FieldStore string `mapstructure:"field_store"`
	LogLevel   string `mapstructure:"log_level"`

	// Autofill retention for name/subdivision, in days. Shared expiry clock.
	FieldTTL uint `mapstructure:"field_ttl"`

	// Notification auto-dismiss window in seconds
	NoticeWindow uint `mapstructure:"notice_window"`

	// Comma separated list of allowed CIDR networks. Empty means allow all.
	AllowedNetworks string `mapstructure:"allowed_networks"`

	BaseURL    string `mapstructure:"base_url"`
	SupportURL string `mapstructure:"support_url"`

	Upload UploadConfig `mapstructure:"upload"`
	Relay  RelayConfig  `mapstructure:"relay"`
	Cache  CacheConfig  `mapstructure:"cache"`

	Storage Storage `mapstructure:"storage"`

	// Receipt email configuration
	Email email.SMTPConfig `mapstructure:",squash"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from environment variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	if cfg.Upload.APIKey == "" {
		slog.Warn("Upload API key is not set, photo upload will fail")
	}
	if cfg.Relay.ScriptURL == "" {
		slog.Warn("Relay script URL is not set, submissions cannot be relayed")
	}

	Cfg = &cfg
	return &cfg, nil
}
