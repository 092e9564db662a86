package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWithWriters(&out, &errOut)

	logger.Info("User %s logged in", "ayse")
	logger.Warn("Warning: %s count is %d", "items", 5)
	logger.Error("Failed to process request %d: %s", 404, "not found")

	assert.Contains(t, out.String(), "INFO: ")
	assert.Contains(t, out.String(), "User ayse logged in")
	assert.Contains(t, out.String(), "WARN: ")
	assert.Contains(t, out.String(), "Warning: items count is 5")
	assert.NotContains(t, out.String(), "ERROR: ")

	assert.Contains(t, errOut.String(), "ERROR: ")
	assert.Contains(t, errOut.String(), "Failed to process request 404: not found")
}
