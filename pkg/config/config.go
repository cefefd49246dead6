package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"fleetfin/pkg/schedule"
)

type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	UsefulLives  schedule.UsefulLifePolicy
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. The useful-life policy maps asset types to depreciation years
// and can be overridden per deployment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "fleetfin.db"),
		JWTSecret:    getEnv("JWT_SECRET", "change_me_in_production"),
		UsefulLives: schedule.UsefulLifePolicy{
			"truck":   getEnvInt("USEFUL_LIFE_TRUCK", 7),
			"trailer": getEnvInt("USEFUL_LIFE_TRAILER", 10),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid value %q for %s", value, key)
		return defaultValue
	}
	return n
}
