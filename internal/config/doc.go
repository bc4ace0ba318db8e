// Package config provides configuration structures and utilities for pypistat.
// It defines the main configuration options for statistics requests, output
// shaping, and the optional .pypistat configuration file with per-package
// overrides.
package config
