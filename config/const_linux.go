package config

const (
	_etc = "/usr/local/etc/rdb-app-sheets"

	DEFAULT_ROOT   = _etc
	DEFAULT_CONFIG = _etc + "/rdb-app-sheets.yaml"
)
