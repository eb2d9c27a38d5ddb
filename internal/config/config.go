package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for sheetbot.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Channels ChannelsConfig `yaml:"channels"`
	Store    StoreConfig    `yaml:"store"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile,omitempty"` // optional log file path
}

// SheetsConfig selects and configures the tabular data source.
type SheetsConfig struct {
	Source              string `yaml:"source"` // "google" | "workbook"
	SpreadsheetID       string `yaml:"spreadsheetId,omitempty"`
	ServiceAccountEmail string `yaml:"serviceAccountEmail,omitempty"`
	PrivateKey          string `yaml:"privateKey,omitempty"`
	OrdersTab           string `yaml:"ordersTab"`
	InventoryTab        string `yaml:"inventoryTab"`
	WorkbookPath        string `yaml:"workbookPath,omitempty"` // for source: workbook
}

type ChannelsConfig struct {
	Twilio   TwilioConfig   `yaml:"twilio"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// TwilioConfig configures the inbound webhook server.
type TwilioConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	WebhookPath string `yaml:"webhookPath"`
	// AuthToken enables X-Twilio-Signature validation when set.
	AuthToken string `yaml:"authToken,omitempty"`
	// PublicBaseURL is the externally visible base URL used for signature
	// validation behind proxies (e.g. "https://bot.example.com").
	PublicBaseURL string `yaml:"publicBaseUrl,omitempty"`
}

type TelegramConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Token     string   `yaml:"token,omitempty"`
	AllowFrom []string `yaml:"allowFrom,omitempty"` // user IDs; empty = allow all
}

type StoreConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"dbPath"`
	RetentionDays int    `yaml:"retentionDays"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.sheetbot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetbot"
	}
	return filepath.Join(home, ".sheetbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads and validates the config file. A .env file in the working
// directory is loaded first so ${VAR} references and credential fallbacks can
// see it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	applyEnv(cfg)
	expandPaths(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a config purely from defaults plus environment variables,
// for running without a config file.
func FromEnv() *Config {
	_ = godotenv.Load()
	cfg := Defaults()
	applyEnv(cfg)
	expandPaths(cfg)
	return cfg
}

// applyEnv fills Google Sheets settings from the conventional environment
// variables wherever the config file left them empty.
func applyEnv(cfg *Config) {
	if cfg.Sheets.ServiceAccountEmail == "" {
		cfg.Sheets.ServiceAccountEmail = os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if cfg.Sheets.PrivateKey == "" {
		cfg.Sheets.PrivateKey = os.Getenv("GOOGLE_PRIVATE_KEY")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		cfg.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_ID")
	}
	if tab := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_ORDER_TAB")); tab != "" {
		cfg.Sheets.OrdersTab = tab
	}
	if tab := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_INVENTORY_TAB")); tab != "" {
		cfg.Sheets.InventoryTab = tab
	}
	if tok := os.Getenv("TWILIO_AUTH_TOKEN"); tok != "" && cfg.Channels.Twilio.AuthToken == "" {
		cfg.Channels.Twilio.AuthToken = tok
	}
}

func expandPaths(cfg *Config) {
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)
	cfg.Store.DBPath = ExpandPath(cfg.Store.DBPath)
	cfg.Sheets.WorkbookPath = ExpandPath(cfg.Sheets.WorkbookPath)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	switch cfg.Sheets.Source {
	case "google":
		// credentials are validated lazily at first fetch
	case "workbook":
		if cfg.Sheets.WorkbookPath == "" {
			errs = append(errs, "sheets.workbookPath is required for the workbook source")
		}
	default:
		errs = append(errs, "sheets.source must be one of: google, workbook")
	}

	if cfg.Channels.Twilio.Port < 1 || cfg.Channels.Twilio.Port > 65535 {
		errs = append(errs, "channels.twilio.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(cfg.Channels.Twilio.WebhookPath, "/") {
		errs = append(errs, "channels.twilio.webhookPath must start with /")
	}
	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.Token == "" {
		errs = append(errs, "channels.telegram.token is required when telegram is enabled")
	}

	if cfg.Store.Enabled && cfg.Store.DBPath == "" {
		errs = append(errs, "store.dbPath is required when the store is enabled")
	}
	if cfg.Store.RetentionDays < 0 {
		errs = append(errs, "store.retentionDays must be >= 0")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
