package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"

	"github.com/crn4/kr/pkg/logging"
)

// runKubectl executes a one-off kubectl command with the terminal attached,
// mirroring kubectl's exit status.
func runKubectl(command string) error {
	logging.InitForCLI(logging.LevelFromEnv(), os.Stderr)

	args, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}

	logging.Debug("cli", "running kubectl %v", args)
	c := exec.Command("kubectl", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("executing kubectl: %w", err)
	}
	return nil
}
