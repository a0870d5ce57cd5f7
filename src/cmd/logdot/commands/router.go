// FILE: logdot/src/cmd/logdot/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// CommandRouter routes CLI arguments to subcommand handlers.
type CommandRouter struct {
	commands map[string]Handler
	output   io.Writer
}

// NewCommandRouter creates the router with all available commands.
func NewCommandRouter() *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		output:   os.Stdout,
	}

	router.commands["send"] = NewSendCommand()
	router.commands["metric"] = NewMetricCommand()
	router.commands["pipe"] = NewPipeCommand()
	router.commands["run"] = NewRunCommand()
	router.commands["config"] = NewConfigCommand()
	router.commands["version"] = NewVersionCommand()
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route executes the subcommand named by args[1]. It returns false when no
// command was given.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]
	switch cmdName {
	case "-v", "--version":
		cmdName = "version"
	case "-h", "--help":
		cmdName = "help"
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s\n\nRun 'logdot help' for usage", cmdName)
	}

	rest := args[2:]
	if cmdName != "help" {
		for _, arg := range rest {
			// Everything after -- belongs to the wrapped program
			if arg == "--" {
				break
			}
			if arg == "-h" || arg == "--help" {
				fmt.Fprint(r.output, handler.Help())
				return true, nil
			}
		}
	}

	return true, handler.Execute(rest)
}

// ShowHelp prints the general help.
func (r *CommandRouter) ShowHelp() error {
	return r.commands["help"].Execute(nil)
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}
