package config

import (
	"os"
	"strings"
)

// StrictReturnValidation returns true when return check-ins must reject
// items whose lost plus returned quantities exceed the reserved quantity.
// Default is permissive: overages are tolerated and only the reserved
// quantity is charged.
func StrictReturnValidation() bool {
	return boolFromEnv("STRICT_RETURN_VALIDATION", false)
}

func boolFromEnv(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
