package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("not a terminal")

// confirm asks a yes/no question on the command's terminal. It refuses to
// guess when stdin is not interactive.
func confirm(cmd *cobra.Command, operation, question, forceHint string) (bool, error) {
	if !isTerminal(cmd.InOrStdin()) {
		return false, newCommandError(operation, "prompting for confirmation", errNotTerminal, forceHint)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}

	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// readPassword reads a password without echo.
func readPassword(cmd *cobra.Command, operation string) (string, error) {
	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !termIsTerminal(int(file.Fd())) {
		return "", newCommandError(operation, "prompting for password", errNotTerminal, "Pass --password when running non-interactively.")
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	data, err := term.ReadPassword(int(file.Fd()))
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", newCommandError(operation, "reading password", err, "Try again, or pass --password.")
	}
	return string(data), nil
}

func isTerminal(reader any) bool {
	if file, ok := reader.(*os.File); ok {
		return termIsTerminal(int(file.Fd()))
	}
	return false
}

var termIsTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
