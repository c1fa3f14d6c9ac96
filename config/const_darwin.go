package config

const (
	_etc = "/usr/local/etc/com.github.rdb-forms/rdb-app-sheets"

	DEFAULT_ROOT   = _etc
	DEFAULT_CONFIG = _etc + "/rdb-app-sheets.yaml"
)
