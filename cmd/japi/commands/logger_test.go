package commands_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/jsonapi-client/cmd/japi/commands"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(l *commands.Logger, msg string, fields map[string]interface{})
		level string
	}{
		{name: "debug", log: (*commands.Logger).Debug, level: "[DEBUG]"},
		{name: "info", log: (*commands.Logger).Info, level: "[INFO]"},
		{name: "warn", log: (*commands.Logger).Warn, level: "[WARN]"},
		{name: "error", log: (*commands.Logger).Error, level: "[ERROR]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			tt.log(commands.NewLogger(&out), "HTTP Request", map[string]interface{}{
				"url":    "https://api.example.com/articles",
				"method": "GET",
			})

			line := out.String()
			assert.Contains(t, line, tt.level)
			assert.Contains(t, line, "japi: HTTP Request")
			assert.Contains(t, line, "method=GET")
			assert.Contains(t, line, "url=https://api.example.com/articles")
			assert.Less(t, strings.Index(line, "method="), strings.Index(line, "url="))
		})
	}
}

func TestLogger_NoFields(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	commands.NewLogger(&out).Info("done", nil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "japi: done"))
}
