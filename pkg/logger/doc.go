// Package logger builds the structured slog logger used by the resolver and
// the command, with a text or JSON handler and configurable level.
package logger
