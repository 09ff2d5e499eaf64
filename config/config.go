// Package config exposes process-wide configuration for the OnkoNavigátor
// backend, read from environment variables (optionally loaded from a .env file).
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// SessionMaxAgeSeconds is the lifetime of the admin session cookie and token.
const SessionMaxAgeSeconds = 7 * 24 * 60 * 60

func init() {
	// Missing .env is fine, the environment may be set by the supervisor.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("ONKO_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("ONKO_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("ONKO_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("ONKO_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("ONKO_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/onkonav"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("ONKO_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetJWTSecret returns the session token signing secret. An empty value is a
// fatal misconfiguration and must be checked before any token is issued.
func GetJWTSecret() string {
	return os.Getenv("ADMIN_JWT_SECRET")
}

func GetDefaultAdminEmail() string {
	return os.Getenv("DEFAULT_ADMIN_EMAIL")
}

func GetDefaultAdminPassword() string {
	return os.Getenv("DEFAULT_ADMIN_PASSWORD")
}
