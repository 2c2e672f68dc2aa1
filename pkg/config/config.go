package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	ExifTool ExifToolConfig `mapstructure:"exiftool"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Guest    GuestConfig    `mapstructure:"guest"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Google   GoogleConfig   `mapstructure:"google"`
	Events   EventsConfig   `mapstructure:"events"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	MetricsPort int      `mapstructure:"metrics_port"`
	Host        string   `mapstructure:"host"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	// TrustProxyHeaders reads the guest address from X-Forwarded-For and friends.
	TrustProxyHeaders bool   `mapstructure:"trust_proxy_headers"`
	SwaggerFile       string `mapstructure:"swagger_file"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	FileOutput bool   `mapstructure:"file_output"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnablePerPath bool `mapstructure:"enable_per_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrateTimeout  time.Duration `mapstructure:"migrate_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type ExifToolConfig struct {
	Binary          string        `mapstructure:"binary"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type PipelineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	TempDir string        `mapstructure:"temp_dir"`
}

type GuestConfig struct {
	MaxUploads  int64         `mapstructure:"max_uploads"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	Window      time.Duration `mapstructure:"window"`
}

type UploadsConfig struct {
	// MaxFileSize bounds authenticated uploads after content decoding.
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type GoogleConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	TokenInfoURL string        `mapstructure:"token_info_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type EventsConfig struct {
	Exporter string                 `mapstructure:"exporter"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

const (
	DefaultGuestMaxUploads  = 1
	DefaultGuestMaxFileSize = 10 * 1024 * 1024
	DefaultGuestWindow      = 24 * time.Hour
	DefaultUserMaxFileSize  = 100 * 1024 * 1024
	DefaultPipelineTimeout  = 60 * time.Second
	DefaultAccessTTL        = time.Hour
	DefaultRefreshTTL       = 7 * 24 * time.Hour
	DefaultTokenInfoURL     = "https://oauth2.googleapis.com/tokeninfo"
)

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	SetDefaultValues(&globalConfig)
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	return nil
}

// bindEnv registers the keys that may come only from the environment, so
// Unmarshal sees them even when the yaml file omits them.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.metrics_port",
		"database.host", "database.port", "database.user", "database.password", "database.name",
		"redis.host", "redis.port", "redis.password",
		"jwt.secret",
		"google.client_id",
		"exiftool.binary",
		"log.level",
	} {
		_ = v.BindEnv(key) //nolint:errcheck
	}
}

func SetDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Pipeline.Timeout == 0 {
		cfg.Pipeline.Timeout = DefaultPipelineTimeout
	}
	if cfg.Guest.MaxUploads == 0 {
		cfg.Guest.MaxUploads = DefaultGuestMaxUploads
	}
	if cfg.Guest.MaxFileSize == 0 {
		cfg.Guest.MaxFileSize = DefaultGuestMaxFileSize
	}
	if cfg.Guest.Window == 0 {
		cfg.Guest.Window = DefaultGuestWindow
	}
	if cfg.Uploads.MaxFileSize == 0 {
		cfg.Uploads.MaxFileSize = DefaultUserMaxFileSize
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "metaguard"
	}
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = DefaultAccessTTL
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Google.TokenInfoURL == "" {
		cfg.Google.TokenInfoURL = DefaultTokenInfoURL
	}
	if cfg.Google.Timeout == 0 {
		cfg.Google.Timeout = 10 * time.Second
	}
}

func GetConfig() *Config {
	return &globalConfig
}
