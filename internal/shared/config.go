package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// Config is flat so the same keys work in TOML (lower case) and env (upper case).
type Config struct {
	AppEnv      string `toml:"app_env"`
	LogLevel    string `toml:"log_level"`
	HTTPAddr    string `toml:"http_addr"`
	MetricsAddr string `toml:"metrics_addr"`
	MySQLDSN    string `toml:"mysql_dsn"`
	RedisAddr   string `toml:"redis_addr"`
	RedisDB     int    `toml:"redis_db"`
	RedisPass   string `toml:"redis_password"`

	LLMProvider string `toml:"llm_provider"`
	LLMModel    string `toml:"llm_model"`
	LLMKey      string `toml:"llm_api_key"`
	LLMBaseURL  string `toml:"llm_base_url"`

	UnsplashBase string `toml:"unsplash_base_url"`
	UnsplashKey  string `toml:"unsplash_access_key"`
	UnsplashRPS  int    `toml:"unsplash_rps"`

	PhotoPageSize        int    `toml:"photo_page_size"`
	BookingURL           string `toml:"booking_url"`
	GenerationTimeoutSec int    `toml:"generation_timeout_seconds"`
	PhotoTimeoutSec      int    `toml:"photo_timeout_seconds"`
	MaxInFlightGuides    int    `toml:"max_inflight_guides"`

	AuthSecret   string `toml:"auth_secret"`
	AuthIssuer   string `toml:"auth_issuer"`
	AuthAudience string `toml:"auth_audience"`
	SessionTTL   int    `toml:"session_ttl_hours"`

	CORSOrigins []string `toml:"cors_origins"`
	CLIWorkers  int      `toml:"cli_workers"`
}

func (c Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSec) * time.Second
}

func (c Config) PhotoTimeout() time.Duration {
	return time.Duration(c.PhotoTimeoutSec) * time.Second
}

func Defaults() Config {
	return Config{
		AppEnv:               "prod",
		LogLevel:             "info",
		HTTPAddr:             ":8080",
		MetricsAddr:          ":9100",
		MySQLDSN:             "root:root@tcp(localhost:3306)/travela?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		RedisAddr:            "localhost:6379",
		LLMProvider:          "gemini",
		UnsplashBase:         "https://api.unsplash.com",
		UnsplashRPS:          5,
		PhotoPageSize:        6,
		BookingURL:           "https://booking.com",
		GenerationTimeoutSec: 60,
		PhotoTimeoutSec:      10,
		MaxInFlightGuides:    16,
		AuthIssuer:           "travela",
		SessionTTL:           24,
		CLIWorkers:           4,
	}
}

// Load builds the config from defaults, then the TOML file named by
// TRAVELA_CONFIG (if any), then the environment.
func Load() Config { return LoadFrom(os.Getenv("TRAVELA_CONFIG")) }

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) Config {
	c, err := load(path, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if c.LLMKey == "" {
		log.Warn().Msg("LLM_API_KEY is empty")
	}
	if c.UnsplashKey == "" {
		log.Warn().Msg("UNSPLASH_ACCESS_KEY is empty")
	}
	if c.AuthSecret == "" {
		log.Warn().Msg("AUTH_SECRET is empty")
	}
	return c
}

func load(path string, getenv func(string) string) (Config, error) {
	c := Defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	atoi := func(k string, dst *int) {
		if v := getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("APP_ENV", &c.AppEnv)
	str("LOG_LEVEL", &c.LogLevel)
	str("HTTP_ADDR", &c.HTTPAddr)
	str("METRICS_ADDR", &c.MetricsAddr)
	str("MYSQL_DSN", &c.MySQLDSN)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPass)
	atoi("REDIS_DB", &c.RedisDB)
	str("LLM_PROVIDER", &c.LLMProvider)
	str("LLM_MODEL", &c.LLMModel)
	str("LLM_API_KEY", &c.LLMKey)
	str("LLM_BASE_URL", &c.LLMBaseURL)
	str("UNSPLASH_BASE_URL", &c.UnsplashBase)
	str("UNSPLASH_ACCESS_KEY", &c.UnsplashKey)
	atoi("UNSPLASH_RPS", &c.UnsplashRPS)
	atoi("PHOTO_PAGE_SIZE", &c.PhotoPageSize)
	str("BOOKING_URL", &c.BookingURL)
	atoi("GENERATION_TIMEOUT_SECONDS", &c.GenerationTimeoutSec)
	atoi("PHOTO_TIMEOUT_SECONDS", &c.PhotoTimeoutSec)
	atoi("MAX_INFLIGHT_GUIDES", &c.MaxInFlightGuides)
	str("AUTH_SECRET", &c.AuthSecret)
	str("AUTH_ISSUER", &c.AuthIssuer)
	str("AUTH_AUDIENCE", &c.AuthAudience)
	atoi("SESSION_TTL_HOURS", &c.SessionTTL)
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	atoi("CLI_WORKERS", &c.CLIWorkers)
	return c, nil
}
