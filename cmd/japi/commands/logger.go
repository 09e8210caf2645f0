package commands

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Logger adapts an hclog.Logger to jsonapi.Logger.
type Logger struct {
	logger hclog.Logger
}

var _ jsonapi.Logger = (*Logger)(nil)

// NewLogger creates a Logger writing debug and above to out.
func NewLogger(out io.Writer) *Logger {
	return &Logger{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:   "japi",
			Output: out,
			Level:  hclog.Debug,
		}),
	}
}

// keyValues flattens fields into hclog's alternating key/value form, sorted by key.
func keyValues(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(keys)*2) //nolint:mnd
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

// Debug implements jsonapi.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, keyValues(fields)...)
}

// Info implements jsonapi.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keyValues(fields)...)
}

// Warn implements jsonapi.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, keyValues(fields)...)
}

// Error implements jsonapi.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, keyValues(fields)...)
}
