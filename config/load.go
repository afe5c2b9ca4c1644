package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfigs mirrors Configs with string durations so it can be decoded
// from TOML before the environment overrides are applied.
type fileConfigs struct {
	Env string `toml:"env"`

	Database struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		Database string `toml:"database"`
		User     string `toml:"user"`
		Password string `toml:"password"`
	} `toml:"database"`

	ApiServer struct {
		Host           string   `toml:"host"`
		Port           string   `toml:"port"`
		DefaultLimit   int      `toml:"default_limit"`
		MaxLimit       int      `toml:"max_limit"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"api_server"`

	Auth struct {
		TokenSecret            string `toml:"token_secret"`
		AccessTokenExpiration  string `toml:"access_token_expiration"`
		RefreshTokenExpiration string `toml:"refresh_token_expiration"`

		Google struct {
			Issuer       string `toml:"issuer"`
			ClientID     string `toml:"client_id"`
			ClientSecret string `toml:"client_secret"`
		} `toml:"google"`
	} `toml:"auth"`

	Session struct {
		Secret string `toml:"secret"`
		Name   string `toml:"name"`
	} `toml:"session"`

	Redis struct {
		Addr string `toml:"addr"`
	} `toml:"redis"`
}

// Load builds the configurations from an optional TOML file, then overrides
// every field for which an environment variable is set. An empty path skips
// the file entirely.
func Load(path string) (Configs, error) {
	var f fileConfigs
	if path != "" {
		if _, err := toml.DecodeFile(path, &f); err != nil && !os.IsNotExist(err) {
			return Configs{}, err
		}
	}

	cfg := Configs{
		Env: getenv("ENV", f.Env, "local"),
		Database: DatabaseConfigs{
			Host:     getenv("MYSQL_HOST", f.Database.Host, "localhost"),
			Port:     getenv("MYSQL_PORT", f.Database.Port, "3306"),
			Database: getenv("MYSQL_DATABASE", f.Database.Database, "campusnex"),
			User:     getenv("MYSQL_USER", f.Database.User, "campusnex"),
			Password: getenv("MYSQL_PASSWORD", f.Database.Password, ""),
		},
		ApiServer: APIServerConfigs{
			Host:           getenv("HOST", f.ApiServer.Host, ""),
			Port:           getenv("PORT", f.ApiServer.Port, "8080"),
			DefaultLimit:   getenvInt("API_DEFAULT_LIMIT", f.ApiServer.DefaultLimit, 20),
			MaxLimit:       getenvInt("API_MAX_LIMIT", f.ApiServer.MaxLimit, 50),
			AllowedOrigins: getenvList("API_ALLOWED_ORIGINS", f.ApiServer.AllowedOrigins),
		},
		Auth: AuthConfigs{
			TokenSecret: getenv("TOKEN_SECRET", f.Auth.TokenSecret, "token-secret"),
			AccessToken: TokenConfigs{
				Name: "access_token",
				Expiration: getenvDuration(
					"ACCESS_TOKEN_EXPIRATION", f.Auth.AccessTokenExpiration, time.Hour),
			},
			RefreshToken: TokenConfigs{
				Name: "refresh_token",
				Expiration: getenvDuration(
					"REFRESH_TOKEN_EXPIRATION", f.Auth.RefreshTokenExpiration, 14*24*time.Hour),
			},
			Google: OAuth2Config{
				Name:         "google",
				Issuer:       getenv("GOOGLE_ISSUER", f.Auth.Google.Issuer, "https://accounts.google.com"),
				ClientID:     getenv("GOOGLE_CLIENT_ID", f.Auth.Google.ClientID, ""),
				ClientSecret: getenv("GOOGLE_CLIENT_SECRET", f.Auth.Google.ClientSecret, ""),
				IDField:      "email",
			},
		},
		Session: SessionConfigs{
			Secret: getenv("SESSION_SECRET", f.Session.Secret, "session-secret"),
			Name:   getenv("SESSION_NAME", f.Session.Name, "campusnex_session"),
		},
		Redis: RedisConfigs{
			Addr: getenv("REDIS_ADDR", f.Redis.Addr, "localhost:6379"),
		},
	}

	return cfg, nil
}

func getenv(key, fileValue, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	if fileValue != "" {
		return fileValue
	}

	return fallback
}

func getenvInt(key string, fileValue, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	if fileValue != 0 {
		return fileValue
	}

	return fallback
}

func getenvDuration(key, fileValue string, fallback time.Duration) time.Duration {
	for _, value := range []string{os.Getenv(key), fileValue} {
		if value == "" {
			continue
		}

		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return fallback
}

func getenvList(key string, fileValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}

	return fileValue
}
