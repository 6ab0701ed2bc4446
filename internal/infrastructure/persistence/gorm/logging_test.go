package gorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent":  logger.Silent,
		"OFF":     logger.Silent,
		"error":   logger.Error,
		" info ":  logger.Info,
		"debug":   logger.Info,
		"warn":    logger.Warn,
		"verbose": logger.Warn,
		"":        logger.Warn,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLogLevel(name), name)
	}
}
