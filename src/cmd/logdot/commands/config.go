// FILE: logdot/src/cmd/logdot/commands/config.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"logdot/src/internal/config"

	"github.com/spf13/pflag"
)

const defaultConfigFile = "logdot.toml"

// ConfigCommand manages the configuration file
type ConfigCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *ConfigCommand) Execute(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.output, c.Help())
		return nil
	}

	switch args[0] {
	case "init":
		return c.init(args[1:])
	case "path":
		fmt.Fprintln(c.output, config.GetConfigPath())
		return nil
	case "check":
		return c.check(args[1:])
	default:
		return fmt.Errorf("unknown config subcommand: %s", args[0])
	}
}

func (c *ConfigCommand) init(args []string) error {
	fs := pflag.NewFlagSet("config init", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	force := fs.BoolP("force", "f", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	path := defaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.Default().SaveToFile(path); err != nil {
		return err
	}
	fmt.Fprintf(c.output, "Wrote default configuration to %s\n", path)
	return nil
}

func (c *ConfigCommand) check(args []string) error {
	fs := pflag.NewFlagSet("config check", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if common.configFile != "" {
		os.Setenv("LOGDOT_CONFIG_FILE", common.configFile)
	}
	if _, err := config.LoadWithCLI(common.overrides()); err != nil {
		return err
	}
	fmt.Fprintf(c.output, "%s: ok\n", config.GetConfigPath())
	return nil
}

func (c *ConfigCommand) Description() string {
	return "Create, locate or validate the configuration file"
}

func (c *ConfigCommand) Help() string {
	return `Config Command - Create, locate or validate the configuration file

Usage:
  logdot config <subcommand> [options]

Subcommands:
  init [path]   Write the default configuration (default: logdot.toml)
                --force overwrites an existing file
  path          Print the config file that would be loaded
  check         Load and validate configuration from all sources

Sources, highest priority first:
  command-line flags, LOGDOT_* environment variables, config file, defaults

Examples:
  logdot config init ~/.config/logdot.toml
  LOGDOT_CLIENT_API_KEY=... logdot config check
`
}
