// Package logging builds the charmbracelet/log loggers used across conrad.
// Every logger writes to stderr by default, carries the "conrad" prefix and
// honours the level configured through --log-level, CONRAD_LOG_LEVEL or the
// log_level config key.
package logging
