package env

import (
	"os"
	"strconv"
)

// String returns the value of the environment variable, or defaultValue when
// the variable is unset or empty.
func String(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// Bool parses the environment variable as a boolean, falling back to
// defaultValue on absence or parse failure.
func Bool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

// Int parses the environment variable as an integer, falling back to
// defaultValue on absence or parse failure.
func Int(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

// Float64 parses the environment variable as a float, falling back to
// defaultValue on absence or parse failure.
func Float64(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
