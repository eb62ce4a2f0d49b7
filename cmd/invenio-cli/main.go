package main

import (
	"os"

	"github.com/max-moser/invenio-cli/internal/cli"
	"github.com/max-moser/invenio-cli/internal/logging"
)

// main is the entry point for the invenio-cli binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
