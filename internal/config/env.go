package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// setString fills *field with fallback when empty, then lets the named
// environment variable override it.
func setString(field *string, fallback, env string) {
	if *field == "" {
		*field = fallback
	}
	if v := os.Getenv(env); v != "" {
		*field = v
	}
}

// setInt works like setString for integer fields. Unparseable environment
// values are ignored.
func setInt(field *int, fallback int, env string) {
	if *field == 0 {
		*field = fallback
	}
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*field = n
		}
	}
}

// checkDuration validates that value parses as a time.Duration.
func checkDuration(name, value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// duration parses a duration string already validated by Finalize.
func duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
