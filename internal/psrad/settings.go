package psrad

import "os"

// PathKey names the setting holding the PSRAD resource directory.
const PathKey = "PSRAD_PATH"

// Settings supplies process-wide configuration values by key.
type Settings interface {
	Lookup(key string) (string, bool)
}

// EnvSettings reads settings from the process environment.
type EnvSettings struct{}

// Lookup implements Settings.
func (EnvSettings) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapSettings serves settings from a fixed map.
type MapSettings map[string]string

// Lookup implements Settings.
func (m MapSettings) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
