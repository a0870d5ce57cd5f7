// FILE: logdot/src/cmd/logdot/commands/pipe.go
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"logdot/src/internal/core"
	"logdot/src/internal/filter"
	"logdot/src/internal/logging"

	"github.com/lixenwraith/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const maxLineBytes = 1024 * 1024

// PipeCommand forwards stdin line by line
type PipeCommand struct {
	input  io.Reader
	output io.Writer
	errOut io.Writer
}

func NewPipeCommand() *PipeCommand {
	return &PipeCommand{input: os.Stdin, output: os.Stdout, errOut: os.Stderr}
}

func (c *PipeCommand) Execute(args []string) error {
	fs := pflag.NewFlagSet("pipe", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)

	var common commonFlags
	common.register(fs)
	severity := fs.StringP("severity", "s", "info", "Severity for every line")
	tagArgs := fs.StringArrayP("tag", "t", nil, "Tag as key=value (repeatable)")
	batchSize := fs.IntP("batch-size", "b", 50, "Lines per request; 1 sends each line on its own")
	echo := fs.Bool("echo", false, "Copy input to stdout")
	include := fs.StringArray("include", nil, "Only send lines matching this regex (repeatable, any match)")
	exclude := fs.StringArray("exclude", nil, "Drop lines matching this regex (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	sev, err := core.ParseSeverity(*severity)
	if err != nil {
		return err
	}
	tags, err := parseTags(*tagArgs)
	if err != nil {
		return err
	}
	if *batchSize < 1 {
		return fmt.Errorf("batch-size must be at least 1: %d", *batchSize)
	}

	if f, ok := c.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(c.errOut, "Reading from terminal, press Ctrl-D to finish")
	}

	sess, err := common.start(c.output)
	if err != nil {
		return err
	}
	defer sess.close()

	chain, err := lineFilters(*include, *exclude, sess.logger)
	if err != nil {
		return err
	}

	logs := sess.svc.Logs().WithContext(tags)
	var echoOut io.Writer
	if *echo {
		echoOut = c.output
	}

	sent, err := pipeLines(context.Background(), c.input, echoOut, logs, chain, sev, *batchSize)
	fmt.Fprintf(c.errOut, "pipe: %d lines sent\n", sent)
	return err
}

// lineFilters builds the chain for --include and --exclude.
func lineFilters(include, exclude []string, logger *log.Logger) (*filter.Chain, error) {
	var configs []filter.Config
	if len(include) > 0 {
		configs = append(configs, filter.Config{Type: filter.TypeInclude, Logic: filter.LogicOr, Patterns: include})
	}
	if len(exclude) > 0 {
		configs = append(configs, filter.Config{Type: filter.TypeExclude, Logic: filter.LogicOr, Patterns: exclude})
	}
	return filter.NewChain(configs, logger)
}

// pipeLines reads r line by line into logs. Blank lines and lines rejected
// by chain are skipped. With batchSize > 1 lines are sent in batches; a
// failed batch aborts the copy.
func pipeLines(ctx context.Context, r io.Reader, echo io.Writer, logs *logging.Client, chain *filter.Chain, sev core.Severity, batchSize int) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	if batchSize > 1 {
		logs.BeginBatch()
		defer logs.EndBatch()
	}

	sent := 0
	flush := func() error {
		n := logs.BatchSize()
		if n == 0 {
			return nil
		}
		if !logs.SendBatchContext(ctx) {
			return fmt.Errorf("failed to send batch of %d lines: %w", n, logs.LastError())
		}
		sent += n
		return nil
	}

	failed := 0
	var lastErr error
	for scanner.Scan() {
		line := scanner.Text()
		if echo != nil {
			fmt.Fprintln(echo, line)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !chain.Apply(core.LogEntry{Severity: sev, Message: line}) {
			continue
		}

		if batchSize == 1 {
			if logs.Log(ctx, sev, line, nil) {
				sent++
			} else {
				failed++
				lastErr = logs.LastError()
			}
			continue
		}

		logs.Log(ctx, sev, line, nil)
		if logs.BatchSize() >= batchSize {
			if err := flush(); err != nil {
				return sent, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return sent, fmt.Errorf("failed to read input: %w", err)
	}

	if err := flush(); err != nil {
		return sent, err
	}
	if failed > 0 {
		return sent, fmt.Errorf("%d lines failed to send: %w", failed, lastErr)
	}
	return sent, nil
}

func (c *PipeCommand) Description() string {
	return "Forward stdin lines as log entries"
}

func (c *PipeCommand) Help() string {
	return `Pipe Command - Forward stdin lines as log entries

Usage:
  <producer> | logdot pipe [options]

Options:
  -s, --severity <level>   Severity for every line (default: info)
  -t, --tag key=value      Attach a tag to every line; repeat for more
  -b, --batch-size <n>     Lines per request (default: 50, 1 = unbatched)
      --echo               Copy input to stdout
      --include <regex>    Only send lines matching; repeat for alternatives
      --exclude <regex>    Drop lines matching; repeat for more
  Common options: see 'logdot help'

Examples:
  tail -f /var/log/app.log | logdot pipe -t file=app.log
  make 2>&1 | logdot pipe --echo -s debug -b 1
  journalctl -f | logdot pipe --include 'error|fail' --exclude healthz
`
}
