package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
)

var errPasswordMismatch = errors.New("passwords do not match")

type passwordFlags struct {
	value     string
	fromStdin bool
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.value, "password", "", "password (visible in the process list; prefer the prompt or --password-stdin)")
	cmd.Flags().BoolVar(&p.fromStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

// readPasswordInput returns the password from a flag, stdin or an
// interactive prompt, in that order. With no source available it
// returns "" and leaves the decision to the caller.
func (a *App) readPasswordInput(p passwordFlags, confirm bool) (string, error) {
	if p.value != "" {
		a.logger.Warn("password given on the command line", logging.Component("cli"))
		return p.value, nil
	}
	if p.fromStdin {
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd, ok := a.terminal()
	if !ok {
		return "", nil
	}
	pw, err := a.prompt(fd, "Password: ")
	if err != nil {
		return "", err
	}
	if confirm && pw != "" {
		again, err := a.prompt(fd, "Retype password: ")
		if err != nil {
			return "", err
		}
		if again != pw {
			return "", errPasswordMismatch
		}
	}
	return pw, nil
}

func (a *App) prompt(fd int, label string) (string, error) {
	fmt.Fprint(a.errOut, label)
	b, err := a.readPassword(fd)
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
