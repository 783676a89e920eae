// Package config reads nadder settings from the environment.
//
// Every getter re-reads its variable, so tests and long-running hosts can
// change behaviour with os.Setenv without re-initialising anything.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	// PreferForeign migrates new buffers into the default foreign allocator
	// when one is installed.
	PreferForeign = BoolWithDefault("NADDER_PREFER_FOREIGN")

	// FreeForeign moves ufunc outputs back to host memory after each call.
	FreeForeign = BoolWithDefault("NADDER_FREE_FOREIGN")

	// ArenaLimit caps the foreign arena created by the CLI, in bytes.
	ArenaLimit = Uint("NADDER_ARENA_LIMIT", 0)

	// PrintThreshold is the axis length above which String elides elements.
	PrintThreshold = Uint("NADDER_PRINT_THRESHOLD", 6)
)

// LogLevel returns the slog level selected by NADDER_DEBUG.
// 0/false is INFO, 1/true is DEBUG, larger integers go further below DEBUG.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("NADDER_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Var returns an environment variable with surrounding quotes and
// whitespace removed.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable.
// An unparsable non-empty value counts as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable that defaults to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for an unsigned integer variable.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"NADDER_DEBUG":           {"NADDER_DEBUG", LogLevel(), "Show additional debug information (e.g. NADDER_DEBUG=1)"},
		"NADDER_PREFER_FOREIGN":  {"NADDER_PREFER_FOREIGN", PreferForeign(true), "Store new arrays in foreign memory when an allocator is installed (default true)"},
		"NADDER_FREE_FOREIGN":    {"NADDER_FREE_FOREIGN", FreeForeign(false), "Move ufunc outputs back to host memory after each call"},
		"NADDER_ARENA_LIMIT":     {"NADDER_ARENA_LIMIT", ArenaLimit(), "Maximum foreign arena size in bytes (0 = unlimited)"},
		"NADDER_PRINT_THRESHOLD": {"NADDER_PRINT_THRESHOLD", PrintThreshold(), "Axis length above which arrays print with ... (default 6)"},
	}
}

// Values returns every variable's current value as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
