// Package config resolves the environment selector supplied by a test harness
// into a base API URL and the HTTP client timeouts for the run. The lookup
// table is data: built-in entries can be overridden or extended from an
// environments.yaml file, and the selector is read from KARATE_ENV or the
// karate.env key.
package config
