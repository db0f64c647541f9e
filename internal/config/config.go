package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Hunter    HunterConfig    `yaml:"hunter" mapstructure:"hunter"`
	Assistant AssistantConfig `yaml:"assistant" mapstructure:"assistant"`
	Social    SocialConfig    `yaml:"social" mapstructure:"social"`
	Sheets    SheetsConfig    `yaml:"sheets" mapstructure:"sheets"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Qualify   QualifyConfig   `yaml:"qualify" mapstructure:"qualify"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Recommend RecommendConfig `yaml:"recommend" mapstructure:"recommend"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// HunterConfig holds Hunter.io API settings.
type HunterConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	EmailLimit int     `yaml:"email_limit" mapstructure:"email_limit"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AssistantConfig holds model API settings for the influencer finder.
type AssistantConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SocialConfig holds profile-stats provider settings.
type SocialConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
}

// SheetsConfig holds Google Sheets export settings.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Worksheet       string `yaml:"worksheet" mapstructure:"worksheet"`
}

// NotionConfig holds Notion API credentials and the contact database ID.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	ContactDB string `yaml:"contact_db" mapstructure:"contact_db"`
}

// ScrapeConfig configures the site scraper.
type ScrapeConfig struct {
	MaxPages    int    `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// QualifyConfig configures the influencer qualification filter.
type QualifyConfig struct {
	Disabled  bool   `yaml:"disabled" mapstructure:"disabled"`
	VocabFile string `yaml:"vocab_file" mapstructure:"vocab_file"`
}

// EnrichConfig configures live platform enrichment.
type EnrichConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ExportConfig selects and configures the export destination.
type ExportConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`
	CSVPath  string `yaml:"csv_path" mapstructure:"csv_path"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	Policy string `yaml:"policy" mapstructure:"policy"`
	Limit  int    `yaml:"limit" mapstructure:"limit"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INFLUENCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "influencer.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.email_limit", 25)
	v.SetDefault("hunter.rate_per_sec", 10)
	v.SetDefault("assistant.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("social.base_url", "https://api.socialcounts.org/v1")
	v.SetDefault("social.timeout_secs", 10)
	v.SetDefault("social.enabled", false)
	v.SetDefault("sheets.worksheet", "Influencers")
	v.SetDefault("scrape.max_pages", 6)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.user_agent", "influencer-cli/1.0 (contact research)")
	v.SetDefault("enrich.timeout_secs", 8)
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.csv_path", "influencer_contacts.csv")
	v.SetDefault("recommend.policy", "best-effort")
	v.SetDefault("recommend.limit", 20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can support the given run mode.
// Every problem found is reported, not just the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	need := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, name+" is required")
		}
	}

	checkExport := func() {
		switch c.Export.Format {
		case "", "csv":
			need(c.Export.CSVPath, "export.csv_path")
		case "xlsx":
			need(c.Export.XLSXPath, "export.xlsx_path")
		case "sheets":
			need(c.Sheets.CredentialsFile, "sheets.credentials_file")
			need(c.Sheets.SpreadsheetID, "sheets.spreadsheet_id")
		case "notion":
			need(c.Notion.Token, "notion.token")
			need(c.Notion.ContactDB, "notion.contact_db")
		default:
			problems = append(problems,
				"export.format must be one of csv, xlsx, sheets, notion")
		}
	}

	switch mode {
	case "extract":
		need(c.Hunter.Key, "hunter.key")
		checkExport()
	case "scrape":
		checkExport()
	case "recommend":
		if c.Recommend.Limit < 1 {
			problems = append(problems, "recommend.limit must be >= 1")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "import":
		need(c.Store.DatabaseURL, "store.database_url")
	case "export":
		need(c.Store.DatabaseURL, "store.database_url")
		checkExport()
	case "runs":
		need(c.Store.DatabaseURL, "store.database_url")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Recommend.Policy {
	case "", "strict", "best-effort":
	default:
		problems = append(problems,
			"recommend.policy must be strict or best-effort")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
