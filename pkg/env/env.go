// Package env has small raw-environment helpers for the few places that read
// variables before envconfig runs (logger bootstrap, port fallback).
package env

import "os"

// Get returns the named environment variable, or fallback when unset or empty.
func Get(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
