package main

import (
	"errors"
	"os"

	"github.com/devcontools/devcon/internal/cli"
	"github.com/devcontools/devcon/internal/session"
)

func main() {
	if err := cli.Execute(); err != nil {
		var exitErr *session.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
