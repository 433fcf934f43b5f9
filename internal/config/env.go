// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/magiavventure/go-common/pkg/log"
)

// EnvPrefix prefixes every environment variable read by the Loader.
const EnvPrefix = "COMMON_"

// lookupEnv returns the value of key when it is set and non-empty.
// Empty variables count as unset so they never clobber file values.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func logEnvUsed(key string, build func(*zerolog.Event) *zerolog.Event) {
	logger := log.WithComponent("config")
	lowerKey := strings.ToLower(key)
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "password") {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = build(ev)
	}
	ev.Msg("using environment variable")
}

func logEnvInvalid(key, value, kind string) {
	logger := log.WithComponent("config")
	logger.Warn().
		Str("key", key).
		Str("value", value).
		Msgf("invalid %s in environment variable, keeping current value", kind)
}

// ParseString returns the environment value of key, or current when unset.
func ParseString(key, current string) string {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Str("value", v) })
	return v
}

// ParseBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, current bool) bool {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Bool("value", true) })
		return true
	case "false", "0", "no":
		logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Bool("value", false) })
		return false
	}
	logEnvInvalid(key, v, "boolean")
	return current
}

// ParseInt reads an integer, keeping current on parse errors.
func ParseInt(key string, current int) int {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logEnvInvalid(key, v, "integer")
		return current
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Int("value", i) })
	return i
}

// ParseInt64 reads a 64-bit integer, keeping current on parse errors.
func ParseInt64(key string, current int64) int64 {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logEnvInvalid(key, v, "integer")
		return current
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Int64("value", i) })
	return i
}

// ParseFloat reads a float64, keeping current on parse errors.
func ParseFloat(key string, current float64) float64 {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logEnvInvalid(key, v, "float")
		return current
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Float64("value", f) })
	return f
}

// ParseDuration reads a Go duration (e.g. "5s"), keeping current on parse errors.
func ParseDuration(key string, current time.Duration) time.Duration {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logEnvInvalid(key, v, "duration")
		return current
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Dur("value", d) })
	return d
}

// ParseList reads a comma-separated list, dropping blank items.
func ParseList(key string, current []string) []string {
	v, ok := lookupEnv(key)
	if !ok {
		return current
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	logEnvUsed(key, func(e *zerolog.Event) *zerolog.Event { return e.Strs("value", out) })
	return out
}
