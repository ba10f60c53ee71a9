package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config stores the application configuration.
// Values come from the optional YAML file first, then environment variables (and .env) override them.
type Config struct {
	APIBaseURL string  `yaml:"api_base_url"`
	APITimeout int     `yaml:"api_timeout_seconds"`
	APIRate    float64 `yaml:"api_rate_limit"` // requests per second, 0 disables limiting

	SessionBackend string `yaml:"session_backend"` // "file" or "redis"
	SessionFile    string `yaml:"session_file"`
	SessionKey     string `yaml:"session_key"`

	// SessionRefreshSec bounds how long a shared (redis) token is reused before rereading.
	SessionRefreshSec int `yaml:"session_refresh_seconds"`

	// Redis配置
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// MinIO配置
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
	MinioRegion    string `yaml:"minio_region"`

	MediaPublicURL   string `yaml:"media_public_url"`
	ArtistBucket     string `yaml:"media_bucket_artist"`
	AlbumBucket      string `yaml:"media_bucket_album"`
	TrackBucket      string `yaml:"media_bucket_track"`
	NewsBucket       string `yaml:"media_bucket_news"`
	UploadMaxBytes   int64  `yaml:"upload_max_bytes"`
	ServerAddr       string `yaml:"server_addr"`
	ServerTimeoutSec int    `yaml:"server_timeout_seconds"`

	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
	LogCompress   bool   `yaml:"log_compress"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	sessionDir := ".catalogadmin"
	if home, err := os.UserHomeDir(); err == nil {
		sessionDir = filepath.Join(home, ".catalogadmin")
	}

	return &Config{
		APIBaseURL:        "https://uzi-muscal-backend.onrender.com/api",
		APITimeout:        30,
		APIRate:           5,
		SessionBackend:    "file",
		SessionFile:       filepath.Join(sessionDir, "session.json"),
		SessionKey:        "userLogin",
		SessionRefreshSec: 30,
		RedisHost:         "127.0.0.1",
		RedisPort:         "6379",
		MinioEndpoint:     "127.0.0.1:9000",
		MinioRegion:       "us-east-1",
		MediaPublicURL:    "http://127.0.0.1:9000",
		ArtistBucket:      "images",
		AlbumBucket:       "album",
		TrackBucket:       "track",
		NewsBucket:        "news",
		UploadMaxBytes:    10 << 20,
		ServerAddr:        ":8080",
		ServerTimeoutSec:  30,
		LogLevel:          "info",
		LogMaxSizeMB:      50,
		LogMaxBackups:     3,
		LogMaxAgeDays:     28,
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// Load loads configuration from an optional YAML file, the .env file and environment variables.
// An empty path falls back to CATALOGADMIN_CONFIG; a missing file is not an error.
func Load(path string) (*Config, error) {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CATALOGADMIN_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			log.Printf("Config file %s not found, using defaults.", path)
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", c.APIBaseURL), "/")
	c.APITimeout = getEnvInt("API_TIMEOUT_SECONDS", c.APITimeout)
	c.APIRate = getEnvFloat("API_RATE_LIMIT", c.APIRate)

	c.SessionBackend = getEnv("SESSION_BACKEND", c.SessionBackend)
	c.SessionFile = getEnv("SESSION_FILE", c.SessionFile)
	c.SessionKey = getEnv("SESSION_KEY", c.SessionKey)
	c.SessionRefreshSec = getEnvInt("SESSION_REFRESH_SECONDS", c.SessionRefreshSec)

	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnv("REDIS_PORT", c.RedisPort)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)

	c.MinioEndpoint = getEnv("MINIO_ENDPOINT", c.MinioEndpoint)
	c.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", c.MinioAccessKey)
	c.MinioSecretKey = getEnv("MINIO_SECRET_KEY", c.MinioSecretKey)
	c.MinioUseSSL = getEnvBool("MINIO_USE_SSL", c.MinioUseSSL)
	c.MinioRegion = getEnv("MINIO_REGION", c.MinioRegion)

	c.MediaPublicURL = strings.TrimRight(getEnv("MEDIA_PUBLIC_URL", c.MediaPublicURL), "/")
	c.ArtistBucket = getEnv("MEDIA_BUCKET_ARTIST", c.ArtistBucket)
	c.AlbumBucket = getEnv("MEDIA_BUCKET_ALBUM", c.AlbumBucket)
	c.TrackBucket = getEnv("MEDIA_BUCKET_TRACK", c.TrackBucket)
	c.NewsBucket = getEnv("MEDIA_BUCKET_NEWS", c.NewsBucket)
	c.UploadMaxBytes = getEnvInt64("UPLOAD_MAX_BYTES", c.UploadMaxBytes)

	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.ServerTimeoutSec = getEnvInt("SERVER_TIMEOUT_SECONDS", c.ServerTimeoutSec)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
	c.LogCompress = getEnvBool("LOG_COMPRESS", c.LogCompress)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("API_BASE_URL must be an absolute URL, got: %q", c.APIBaseURL))
	}
	if c.APITimeout <= 0 {
		problems = append(problems, "API_TIMEOUT_SECONDS must be positive")
	}
	if c.APIRate < 0 {
		problems = append(problems, "API_RATE_LIMIT cannot be negative")
	}
	switch c.SessionBackend {
	case "file":
		if c.SessionFile == "" {
			problems = append(problems, "SESSION_FILE cannot be empty with the file session backend")
		}
	case "redis":
	default:
		problems = append(problems, fmt.Sprintf("SESSION_BACKEND must be file or redis, got: %q", c.SessionBackend))
	}
	if c.SessionKey == "" {
		problems = append(problems, "SESSION_KEY cannot be empty")
	}
	if c.SessionRefreshSec < 0 {
		problems = append(problems, "SESSION_REFRESH_SECONDS cannot be negative")
	}
	if c.UploadMaxBytes <= 0 {
		problems = append(problems, "UPLOAD_MAX_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// APITimeoutDuration returns the HTTP timeout for API calls.
func (c *Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// SessionRefresh returns how long a token read from a shared store stays cached.
func (c *Config) SessionRefresh() time.Duration {
	return time.Duration(c.SessionRefreshSec) * time.Second
}

// RedisAddr returns host:port for the redis session backend.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
