// Package config manages user-level settings stored at ~/.conrad/config.yaml.
// Values can be overridden from the environment: CONRAD_<KEY> for every key,
// and the plain PSRAD_PATH variable for the PSRAD resource directory.
package config
