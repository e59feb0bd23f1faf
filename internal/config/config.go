package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds the persistence DSN.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig holds session token signing settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// StorageConfig holds S3-compatible blob store settings for uploads.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access-key"`
	SecretKey string `yaml:"secret-key"`
}

// BootstrapConfig holds the initial administrator credentials created at
// startup when no matching account exists.
type BootstrapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	JWT         JWTConfig       `yaml:"jwt"`
	SMTP        SMTPConfig      `yaml:"smtp"`
	Storage     StorageConfig   `yaml:"storage"`
	Bootstrap   BootstrapConfig `yaml:"bootstrap-admin"`
	FrontendURL string          `yaml:"frontend-url"`
	LogFile     string          `yaml:"log-file"`
}

// Load reads the optional YAML config file at path, then applies
// environment overrides and defaults. A missing file is not an error so
// deployments can run on environment variables alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		if errRead != nil && !os.IsNotExist(errRead) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
		if errRead == nil {
			if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
			}
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, fmt.Errorf("config: jwt secret is required (set JWT_SECRET)")
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return Config{}, fmt.Errorf("config: database dsn is required (set DATABASE_DSN)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := envString("PORT"); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil {
			cfg.Server.Port = port
		}
	}
	if v := envString("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := envString("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := envString("JWT_EXPIRE"); v != "" {
		if expiry, errParse := time.ParseDuration(v); errParse == nil {
			cfg.JWT.Expiry = expiry
		}
	}
	if v := envString("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := envString("SMTP_PORT"); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := envString("SMTP_USER"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := envString("SMTP_PASS"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := envString("SMTP_FROM"); v != "" {
		cfg.SMTP.From = v
	}
	if v := envString("S3_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := envString("S3_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := envString("S3_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := envString("S3_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := envString("S3_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := envString("ADMIN_USERNAME"); v != "" {
		cfg.Bootstrap.Username = v
	}
	if v := envString("ADMIN_PASSWORD"); v != "" {
		cfg.Bootstrap.Password = v
	}
	if v := envString("ADMIN_EMAIL"); v != "" {
		cfg.Bootstrap.Email = v
	}
	if v := envString("FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}
	if v := envString("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = 8 * time.Hour
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
