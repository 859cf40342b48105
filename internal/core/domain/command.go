package domain

import "strings"

// Command describes one invocation of a child process.
type Command struct {
	Argv []string
	// TTY runs the command under a pseudo-terminal. Both output streams are then captured as Stdout.
	TTY bool
}

// ShellCommand builds a command that runs script with shell -c.
func ShellCommand(shell string, script string, tty bool) Command {
	return Command{Argv: []string{shell, "-c", script}, TTY: tty}
}

// String returns the argv joined by spaces, for logs.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}
