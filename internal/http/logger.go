package http

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

// leveledLogger adapts untappd.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger untappd.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

// fields turns alternating keys and values into a map. A trailing key
// without a value is kept with a nil value.
func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, (len(keysAndValues)+1)/2)

	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])

		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}

		if key == "url" && value != nil {
			value = MaskURL(fmt.Sprint(value))
		}

		out[key] = value
	}

	return out
}
