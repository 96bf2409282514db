package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvConfig   = "LINKDECK_CONFIG"
	EnvBrowser  = "LINKDECK_BROWSER"
	EnvLogLevel = "LINKDECK_LOG_LEVEL"
	EnvLogFile  = "LINKDECK_LOG_FILE"
)

// Env holds process settings taken from the environment
type Env struct {
	ConfigPath string // Path of the persisted state file
	Browser    string // Browser command override, e.g. "firefox --new-tab"
	LogLevel   string // zap level; empty disables logging
	LogFile    string // Log destination
}

// LoadEnv reads settings from the environment, after loading a .env file
// from the working directory if one exists.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		ConfigPath: envOrDefault(EnvConfig, ConfigPath()),
		Browser:    os.Getenv(EnvBrowser),
		LogLevel:   os.Getenv(EnvLogLevel),
		LogFile:    envOrDefault(EnvLogFile, "linkdeck.log"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
