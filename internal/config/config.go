// Package config loads process-wide settings from the environment once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	AI       AIConfig
	Vector   VectorConfig
	LogLevel string
}

type ServerConfig struct {
	Port       string
	APIPrefix  string
	CORSOrigin string
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the key/value connection string understood by the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type AIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
}

// Enabled reports whether an API key was provided.
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

type VectorConfig struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

func (v VectorConfig) Enabled() bool {
	return v.URL != ""
}

// IndexTimeout bounds indexing one question: an embedding call followed by a
// vector store write.
func (c *Config) IndexTimeout() time.Duration {
	return c.AI.Timeout + c.Vector.Timeout
}

var requiredKeys = []string{"JWT_SECRET", "DB_HOST", "DB_USER", "DB_NAME"}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("TOKEN_TTL", "72h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("CHROMA_COLLECTION", "my-knowledge-db")
	v.SetDefault("CHROMA_TIMEOUT", "5s")
	v.SetDefault("LOG_LEVEL", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	prefix := "/" + strings.Trim(v.GetString("API_PREFIX"), "/")
	if prefix == "/" {
		prefix = ""
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       v.GetString("PORT"),
			APIPrefix:  prefix,
			CORSOrigin: v.GetString("CORS_ORIGIN"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			TokenTTL:     v.GetDuration("TOKEN_TTL"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		AI: AIConfig{
			APIKey:         v.GetString("GEMINI_API_KEY"),
			Model:          v.GetString("GEMINI_MODEL"),
			EmbeddingModel: v.GetString("GEMINI_EMBEDDING_MODEL"),
			Timeout:        v.GetDuration("AI_TIMEOUT"),
		},
		Vector: VectorConfig{
			URL:        strings.TrimRight(v.GetString("CHROMA_DB_URL"), "/"),
			Collection: v.GetString("CHROMA_COLLECTION"),
			Timeout:    v.GetDuration("CHROMA_TIMEOUT"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if cfg.Auth.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be a positive duration")
	}

	return cfg, nil
}
