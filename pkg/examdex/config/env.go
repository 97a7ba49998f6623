package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds settings the command-line tools read from the environment
type Env struct {
	ContentDir  string
	OutPath     string
	LogMode     string
	Concurrency int
}

// LoadEnv reads optional .env files, then the process environment.
// Missing files are not an error.
func LoadEnv(files ...string) Env {
	_ = godotenv.Load(files...)

	return Env{
		ContentDir:  getEnv("EXAMDEX_CONTENT", "content/2025"),
		OutPath:     getEnv("EXAMDEX_OUT", "data/examdex.json"),
		LogMode:     getEnv("EXAMDEX_LOG_MODE", "dev"),
		Concurrency: getEnvInt("EXAMDEX_CONCURRENCY", 0),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
