// Package env reads process environment variables with fallbacks.
package env

import "os"

// Get looks up key in the environment, falling back to def when the variable
// is unset or empty.
func Get(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
