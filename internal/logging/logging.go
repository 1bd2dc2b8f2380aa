// Package logging wires charmbracelet/log as the engine's structured
// logger. The teacher prints via plain fmt.Println/Fprintf rather than a
// structured logger; this is enriched from the pack (open-platform-model-cli
// depends on charmbracelet/log directly), composing naturally with the
// already-kept charmbracelet/lipgloss styling (DESIGN.md A2).
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds a *log.Logger configured from the CLI's --logging level
// string and optional --log-output-file path (spec §6 CLI surface).
func New(level string, outputFile string) (*log.Logger, error) {
	var out io.Writer = os.Stderr
	if outputFile != "" {
		f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		out = f
	}

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true})

	switch level {
	case "off":
		logger.SetLevel(log.FatalLevel + 1)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "trace":
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	return logger, nil
}
