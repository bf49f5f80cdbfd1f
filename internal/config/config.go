package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // scratch images ship without zoneinfo

	"gopkg.in/yaml.v3"
)

// Supported grid backends.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Store struct {
		Name     string `yaml:"name"`
		Driver   string `yaml:"driver"`
		Timezone string `yaml:"timezone"`
	} `yaml:"store"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		// APIKeys maps operator name to key.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity int `yaml:"capacity"`
		Refill   int `yaml:"refill"`
	} `yaml:"rateLimit"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Areas []string `yaml:"areas"`
}

// DefaultPath is read when CONFIG_PATH is unset.
const DefaultPath = "config.yaml"

// Path returns the config file location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads the yaml file at path, applies env overrides and fills defaults.
// A missing file is not an error: defaults and env still apply.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// secrets and deployment switches that should not live in the file
func (c *Config) applyEnv() {
	if v := os.Getenv("STORE_NAME"); v != "" {
		c.Store.Name = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Store.Name == "" {
		c.Store.Name = "tvp plant"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Timezone == "" {
		c.Store.Timezone = "Asia/Taipei"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "data/inspect.db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.Refill == 0 {
		c.RateLimit.Refill = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Areas) == 0 {
		c.Areas = []string{"TN2", "TN5", "TN6", "TN7"}
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves store.timezone, the zone "today" is computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return nil, fmt.Errorf("store timezone %q: %w", c.Store.Timezone, err)
	}
	return loc, nil
}

// MinioEnabled reports whether snapshot export is configured.
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != "" && c.Minio.BucketName != ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
