// Package env reads deployment overrides for codeg settings from the
// process environment.
package env
