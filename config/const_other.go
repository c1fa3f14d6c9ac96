//go:build !linux && !darwin && !windows

package config

const (
	DEFAULT_ROOT   = "."
	DEFAULT_CONFIG = "rdb-app-sheets.yaml"
)
