// FILE: logdot/src/cmd/logdot/commands/send.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"logdot/src/internal/core"

	"github.com/spf13/pflag"
)

// SendCommand sends a single log entry
type SendCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewSendCommand() *SendCommand {
	return &SendCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *SendCommand) Execute(args []string) error {
	fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)

	var common commonFlags
	common.register(fs)
	severity := fs.StringP("severity", "s", "info", "Severity: debug, info, warn, error")
	tagArgs := fs.StringArrayP("tag", "t", nil, "Tag as key=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	message := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message is required\n\nUsage: logdot send [options] <message>")
	}

	sev, err := core.ParseSeverity(*severity)
	if err != nil {
		return err
	}
	tags, err := parseTags(*tagArgs)
	if err != nil {
		return err
	}

	sess, err := common.start(c.output)
	if err != nil {
		return err
	}
	defer sess.close()

	logs := sess.svc.Logs()
	if !logs.Log(context.Background(), sev, message, tags) {
		return fmt.Errorf("failed to send log: %w", logs.LastError())
	}
	return nil
}

func (c *SendCommand) Description() string {
	return "Send a single log entry"
}

func (c *SendCommand) Help() string {
	return `Send Command - Send a single log entry

Usage:
  logdot send [options] <message>

Options:
  -s, --severity <level>   debug, info, warn, error (default: info)
  -t, --tag key=value      Attach a tag; repeat for more
  Common options: see 'logdot help'

Examples:
  logdot send "deploy finished" -t version=1.4.2
  logdot send -s error "backup failed" -t exit_code=3
`
}
