// Package console prints human-facing status lines to stderr, keeping
// stdout clean for the report document.
package console

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	arrow   = color.New(color.FgCyan, color.Bold).SprintFunc()
	warnTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	errTag  = color.New(color.FgRed, color.Bold).SprintFunc()
	okTag   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Statusf prints a progress line.
func Statusf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", arrow("==>"), fmt.Sprintf(format, a...))
}

// Warnf prints a warning line.
func Warnf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnTag("WARNING:"), fmt.Sprintf(format, a...))
}

// Errorf prints an error line.
func Errorf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errTag("Error:"), fmt.Sprintf(format, a...))
}

// Successf prints a completion line.
func Successf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", okTag("OK:"), fmt.Sprintf(format, a...))
}
