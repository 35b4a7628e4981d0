package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string
	Debug        bool
	DatabaseURL  string
	JWTSecret    string
	ServerHost   string
	ServerPort   int
	TickInterval time.Duration
	SessionFile  string
	Seed         int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading from environment")
	}

	cfg := &Config{
		AppName:      getEnv("APP_NAME", "Notris"),
		Debug:        getEnvAsBool("DEBUG", false),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ServerHost:   getEnv("SERVER_HOST", "localhost"),
		ServerPort:   getEnvAsInt("SERVER_PORT", 8080),
		TickInterval: time.Duration(getEnvAsInt("TICK_INTERVAL_MS", 50)) * time.Millisecond,
		SessionFile:  getEnv("SESSION_FILE", defaultSessionFile()),
		Seed:         int64(getEnvAsInt("SEED", 0)),
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT %d is out of range", cfg.ServerPort)
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL_MS must be positive")
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// RequireJWTSecret makes sure a signing secret is configured. When it is
// missing a fresh one is appended to envPath and the caller is asked to
// restart, so tokens survive process restarts.
func (c *Config) RequireJWTSecret(envPath string) error {
	if c.JWTSecret != "" {
		return nil
	}

	newKey := make([]byte, 32)
	if _, err := rand.Read(newKey); err != nil {
		return fmt.Errorf("failed to generate a new JWT key: %w", err)
	}
	encodedKey := base64.StdEncoding.EncodeToString(newKey)

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("JWT_SECRET is not set and %s could not be opened (%w); add JWT_SECRET=%s to it", envPath, err, encodedKey)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\nJWT_SECRET=%s\n", encodedKey); err != nil {
		return fmt.Errorf("JWT_SECRET is not set and %s could not be written (%w); add JWT_SECRET=%s to it", envPath, err, encodedKey)
	}

	return fmt.Errorf("[SETUP] JWT_SECRET was missing. A new secret has been saved to %s. Please restart the application", envPath)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notris_session.json"
	}
	return filepath.Join(home, ".notris_session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
