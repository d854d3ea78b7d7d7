package commands

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// SetupLogging installs the terminal handler. Verbose enables debug output,
// including every HTTP request and retry.
func SetupLogging(verbose bool) {
	log.SetHandler(cli.New(os.Stderr))

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// apexLogger implements untappd.Logger on top of apex/log.
type apexLogger struct {
	entry log.Interface
}

// NewLogger returns an untappd.Logger writing through the apex/log default logger.
func NewLogger() untappd.Logger {
	return &apexLogger{entry: log.Log}
}

func (l *apexLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(log.Fields(fields)).Debug(msg)
}

func (l *apexLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(log.Fields(fields)).Info(msg)
}

func (l *apexLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(log.Fields(fields)).Warn(msg)
}

func (l *apexLogger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(log.Fields(fields)).Error(msg)
}
