// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string
	// LLM backend (OpenAI-compatible chat completions endpoint).
	LLMAPIKey  string
	LLMBaseURL string
	LLMTimeout time.Duration
	// Composer side-channel (Python subprocess).
	ComposerPythonBin  string
	ComposerScriptPath string
	ComposerTimeout    time.Duration
	Environment        string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "uniguru.db"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMTimeout:         time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		ComposerPythonBin:  getEnv("COMPOSER_PYTHON_BIN", "python3"),
		ComposerScriptPath: getEnv("COMPOSER_SCRIPT_PATH", "composer/composer_api.py"),
		ComposerTimeout:    time.Duration(getEnvAsInt("COMPOSER_TIMEOUT_SECONDS", 30)) * time.Second,
		Environment:        env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
