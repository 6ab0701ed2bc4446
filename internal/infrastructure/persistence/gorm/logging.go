package gorm

import (
	"strings"

	"gorm.io/gorm/logger"
)

// ParseLogLevel maps a config level name to a GORM log level. Unknown names
// fall back to warn.
func ParseLogLevel(name string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "off":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
