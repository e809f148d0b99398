package config

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"

	DefaultFeedLimit = 25
)

type AppConfig struct {
	RedditClientID       string
	RedditClientSecret   string
	RedditRedirectURI    string
	RedditAPIURL         string
	RedditAuthURL        string
	UserAgent            string
	FeedLimit            int
	ProxyURL             string
	PostgresURL          string // optional, enables the feed archive
	KeycloakClientID     string
	KeycloakClientSecret string
	KeycloakRealm        string
	KeycloakURL          string // optional, enables API authentication
	Port                 string
	AppEnv               string // EnvDevelopment or EnvProduction
	LogLevel             slog.Level
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.RedditClientID = loadRequired("REDDIT_CLIENT_ID")
	cfg.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	cfg.RedditRedirectURI = loadOptional("REDDIT_REDIRECT_URI", "feedview://auth")
	cfg.RedditAPIURL = loadOptional("REDDIT_API_URL", "https://oauth.reddit.com")
	cfg.RedditAuthURL = loadOptional("REDDIT_AUTH_URL", "https://www.reddit.com/api/v1/access_token")
	cfg.UserAgent = loadOptional("USER_AGENT", "feedview/1.0")
	cfg.ProxyURL = os.Getenv("PROXY_URL")
	cfg.PostgresURL = os.Getenv("POSTGRES_URL")
	cfg.Port = loadOptional("PORT", "8080")

	cfg.KeycloakURL = os.Getenv("KEYCLOAK_URL")
	if cfg.KeycloakURL != "" {
		cfg.KeycloakClientID = loadRequired("KEYCLOAK_CLIENT_ID")
		cfg.KeycloakClientSecret = loadRequired("KEYCLOAK_CLIENT_SECRET")
		cfg.KeycloakRealm = loadRequired("KEYCLOAK_REALM")
	}

	limit, err := strconv.Atoi(loadOptional("FEED_LIMIT", strconv.Itoa(DefaultFeedLimit)))
	if err != nil || limit <= 0 {
		slog.Error("Invalid FEED_LIMIT, using default", "default", DefaultFeedLimit)
		limit = DefaultFeedLimit
	}
	cfg.FeedLimit = limit

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c AppConfig) ArchiveEnabled() bool {
	return c.PostgresURL != ""
}

func (c AppConfig) AuthEnabled() bool {
	return c.KeycloakURL != ""
}
