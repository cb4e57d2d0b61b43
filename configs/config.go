package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port                string
	Environment         string
	PedestrianModelPath string
	ScalerPath          string
	FitTimeoutSeconds   int
	RateLimitRPS        int
	RateLimitBurst      int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "5002"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		PedestrianModelPath: getEnv("PEDESTRIAN_MODEL_PATH", "pedestrian_model.json"),
		ScalerPath:          getEnv("SCALER_PATH", "scaler.json"),
		FitTimeoutSeconds:   getEnvInt("FIT_TIMEOUT_SECONDS", 30),
		RateLimitRPS:        getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
