package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angas/omie-prices/logging"
	"github.com/angas/omie-prices/pricestats"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded templates.
	// If assigned, templates are read from the "templates" directory
	// inside it and reloaded when they change.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigDatabase struct {
	// Path to the SQLite archive, the archive is disabled when empty
	Path string
	// How many days of prices should be kept in the archive
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) Enabled() bool {
	return d.Path != ""
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 730
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 30
	}
	return *d.BackupRetentionDays
}

type AppConfigOmie struct {
	BaseURL     string `mapstructure:"base_url"`     // Data portal, default https://www.omie.es
	Market      string `mapstructure:"market"`       // File family, default "marginalpdbcpt"
	DownloadDir string `mapstructure:"download_dir"` // Where retrieved files are written
	Timeout     *int   `mapstructure:"timeout"`      // HTTP timeout in seconds, default 30
	RunAt       string `mapstructure:"run_at"`       // Cron spec for retrieving tomorrow's file in daemon mode
}

func (o AppConfigOmie) GetTimeout() time.Duration {
	if o.Timeout == nil {
		return 30 * time.Second
	}
	return time.Duration(*o.Timeout) * time.Second
}

type AppConfigAnalyze struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
	// Value of the first hour in the price files. The files from the
	// portal number their periods from 1, hand made files usually from 0.
	HourBase int `mapstructure:"hour_base"`
}

func (a AppConfigAnalyze) Options() pricestats.Options {
	return pricestats.Options{
		Dir:      a.Dir,
		Pattern:  a.Pattern,
		HourBase: a.HourBase,
	}
}

type AppConfigChart struct {
	Width  *int `mapstructure:"width"`  // Terminal columns, default 80
	Height *int `mapstructure:"height"` // Rows of the price curve, default 10
}

func (c AppConfigChart) GetWidth() int {
	if c.Width == nil {
		return 80
	}
	return *c.Width
}

func (c AppConfigChart) GetHeight() int {
	if c.Height == nil {
		return 10
	}
	return *c.Height
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api      AppConfigApi
	Database AppConfigDatabase
	Omie     AppConfigOmie    `mapstructure:"omie"`
	Analyze  AppConfigAnalyze `mapstructure:"analyze"`
	Chart    AppConfigChart   `mapstructure:"chart"`
	Logging  AppConfigLogging `mapstructure:"logging"`
}

// Load reads the config file at path, or config/config.yaml when path is
// empty. A missing default file is not an error, every setting has a
// default and can be overridden from the environment, e.g. OMIE_DOWNLOAD_DIR.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("api.address", "")
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.path", "")
	v.SetDefault("omie.base_url", "https://www.omie.es")
	v.SetDefault("omie.market", "marginalpdbcpt")
	v.SetDefault("omie.download_dir", ".")
	v.SetDefault("omie.run_at", "0 14 * * *")
	v.SetDefault("analyze.dir", ".")
	v.SetDefault("analyze.pattern", pricestats.DefaultPattern)
	v.SetDefault("analyze.hour_base", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
