package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "tskmap.cfg.json"

// ErrNotFound is returned by Load when the config directory has no
// configuration file. Defaults are still in effect.
var ErrNotFound = errors.New("config file not found")

// RenderConfig holds feature assembly and output settings
type RenderConfig struct {
	CRS     string `json:"crs" mapstructure:"crs"`
	Workers int    `json:"workers" mapstructure:"workers"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// ViewerConfig holds HTML viewer settings
type ViewerConfig struct {
	OpenBrowser bool   `json:"openBrowser" mapstructure:"openBrowser"`
	TempDir     string `json:"tempDir" mapstructure:"tempDir"`
}

// MemoryConfig holds file archive settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite archive settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the render archive
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	DB     DBConfig     `json:"db" mapstructure:"db"`
}

// OTelConfig holds metrics settings
type OTelConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// returns an error wrapping ErrNotFound; the defaults remain usable.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("render.crs", "EPSG:4326")
	viper.SetDefault("render.workers", 0)
	viper.SetDefault("render.pretty", false)

	viper.SetDefault("viewer.openBrowser", true)
	viper.SetDefault("viewer.tempDir", "")

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.memory.outputDir", "./renders")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "./tskmap.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "tskmap")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tskmap")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w in %s", ErrNotFound, configDir)
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetRenderConfig returns the render settings.
func GetRenderConfig() RenderConfig {
	return RenderConfig{
		CRS:     viper.GetString("render.crs"),
		Workers: viper.GetInt("render.workers"),
		Pretty:  viper.GetBool("render.pretty"),
	}
}

// GetViewerConfig returns the viewer settings.
func GetViewerConfig() ViewerConfig {
	return ViewerConfig{
		OpenBrowser: viper.GetBool("viewer.openBrowser"),
		TempDir:     viper.GetString("viewer.tempDir"),
	}
}

// GetStorageConfig returns the archive settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetOTelConfig returns the metrics settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
