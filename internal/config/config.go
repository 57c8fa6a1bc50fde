// Package config provides configuration helpers for go-camerautils commands.
//
// Values come from environment variables with command-line flags taking
// precedence. A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default image server configuration.
const (
	DefaultServerPort = 6008
	DefaultFrameRate  = 30.0
	DefaultChunkSize  = 6000
)

// LoadEnvFile loads a .env file from the working directory if one exists.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// String returns the value of the env var key, or def if unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the integer value of the env var key, or def if unset or
// not a valid integer.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Float returns the float value of the env var key, or def if unset or
// not a valid number.
func Float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Bool returns the boolean value of the env var key, or def if unset or
// not parseable. Accepts the strconv.ParseBool forms (1/t/true/0/f/false).
func Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ServerPort returns the image server port from IMAGESERVER_PORT.
func ServerPort() int {
	return Int("IMAGESERVER_PORT", DefaultServerPort)
}

// ImageRoot returns the image directory from IMAGESERVER_PATH.
// Falls back to the provided default if not set.
func ImageRoot(def string) string {
	return String("IMAGESERVER_PATH", def)
}
