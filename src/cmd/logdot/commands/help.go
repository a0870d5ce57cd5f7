// FILE: logdot/src/cmd/logdot/commands/help.go
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const generalHelpTemplate = `logdot: ship logs and metrics to LogDot from the command line.

Usage:
  logdot [-q] <command> [options]

Commands:
%s

Common Options:
  -c, --config <path>      Path to configuration file
      --api-key <key>      API key (overrides config)
      --hostname <name>    Hostname reported with logs
      --dry-run            Print payloads instead of sending them
      --log-level <level>  Write diagnostics to stderr at this level
  -q, --quiet              Suppress CLI error output (before the command)

For command-specific help:
  logdot help <command>
  logdot <command> --help

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - LOGDOT_CONFIG_FILE / LOGDOT_CONFIG_DIR select the TOML file
  - LOGDOT_<SECTION>_<KEY> variables override file settings,
    e.g. LOGDOT_CLIENT_API_KEY

Examples:
  logdot send -s warn "disk almost full" -t disk=/dev/sda1
  logdot metric cpu.usage 42.5 -u percent
  tail -f app.log | logdot pipe --batch-size 100
  logdot run -- ./worker --queue jobs
`

// HelpCommand displays general or command-specific help.
type HelpCommand struct {
	router *CommandRouter
	output io.Writer
}

func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router, output: os.Stdout}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.output, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.output, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  logdot help              Show general help
  logdot help <command>    Show help for a specific command
`
}

// formatCommandList creates an aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
