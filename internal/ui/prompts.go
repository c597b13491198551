package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/moby/term"
)

// AskString prompts the user for a single line of input.
func AskString(prompt string) string {
	fmt.Fprintf(Out, "%s: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	return strings.TrimSpace(response)
}

// AskPassword prompts for a line of input with terminal echo disabled.
// Falls back to plain line input when stdin is not a terminal.
func AskPassword(prompt string) string {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(fd) {
		return AskString(prompt)
	}

	fmt.Fprintf(Out, "%s: ", prompt)
	state, err := term.SaveState(fd)
	if err != nil {
		return AskString("")
	}
	_ = term.DisableEcho(fd, state)
	defer func() {
		_ = term.RestoreTerminal(fd, state)
		fmt.Fprintln(Out)
	}()

	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	return strings.TrimSpace(response)
}
