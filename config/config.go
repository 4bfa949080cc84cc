// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the dashboard client needs to reach its backends.
type Config struct {
	//GraphQL backend
	GRAPHQL_ENDPOINT string
	AUTH_TOKEN       string
	HTTP_TIMEOUT     time.Duration
	//Local preference file
	PREFS_PATH string
	//Database (PostgreSQL) config, only for the direct attendance store
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string
}

// Load reads configuration from the environment. A .env file next to the
// process is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GRAPHQL_ENDPOINT: getEnv("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql"),
		AUTH_TOKEN:       os.Getenv("AUTH_TOKEN"),
		HTTP_TIMEOUT:     getDuration("HTTP_TIMEOUT", 15*time.Second),
		PREFS_PATH:       getEnv("PREFS_PATH", ".school-dashboard/prefs.json"),

		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
	}
}

// GetDBURL formats the config into a PostgreSQL connection string
func (c *Config) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
