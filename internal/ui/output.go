// Package ui provides formatted terminal output for status and prompts.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()

	// Out is the destination for status output. Stderr so that list output
	// and completion scripts on stdout stay machine-consumable.
	Out io.Writer = os.Stderr
)

// Info prints an informational message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(Out, "%s %s\n", cyan("→"), fmt.Sprintf(format, args...))
}

// Success prints a success message.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(Out, "%s %s\n", green("✔"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(Out, "%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}

// Fail prints an error message.
func Fail(format string, args ...interface{}) {
	fmt.Fprintf(Out, "%s %s\n", red("✘"), fmt.Sprintf(format, args...))
}
