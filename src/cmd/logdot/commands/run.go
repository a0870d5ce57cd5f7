// FILE: logdot/src/cmd/logdot/commands/run.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"logdot/src/internal/capture"
	"logdot/src/internal/core"
	"logdot/src/internal/logging"

	"github.com/lixenwraith/log"
	"github.com/spf13/pflag"
)

// RunCommand runs a program and forwards its output
type RunCommand struct {
	input  io.Reader
	output io.Writer
	errOut io.Writer
}

func NewRunCommand() *RunCommand {
	return &RunCommand{input: os.Stdin, output: os.Stdout, errOut: os.Stderr}
}

func (c *RunCommand) Execute(args []string) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)

	var common commonFlags
	common.register(fs)
	rate := fs.Float64("rate", 0, "Forwarded writes per second per stream (0 = unlimited)")
	burst := fs.Int("burst", 0, "Burst for --rate (default: rate)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cmdArgs := fs.Args()
	if len(cmdArgs) == 0 {
		return fmt.Errorf("no program given\n\nUsage: logdot run [options] -- <program> [args...]")
	}

	sess, err := common.start(c.output)
	if err != nil {
		return err
	}
	defer sess.close()

	return runChild(cmdArgs, c.input, c.output, c.errOut, sess.svc.Logs(), *rate, *burst, sess.logger)
}

// runChild runs argv with its stdout and stderr teed into logs, forwarding
// termination signals until it exits. A non-zero exit becomes an *ExitError.
func runChild(argv []string, in io.Reader, out, errOut io.Writer, logs *logging.Client, perSecond float64, burst int, logger *log.Logger) error {
	logs = logs.WithContext(core.Tags{"command": filepath.Base(argv[0])})

	child := exec.Command(argv[0], argv[1:]...)
	child.Stdin = in
	child.Stdout = capture.NewStreamTee(out, logs.WithContext(core.Tags{"stream": "stdout"}),
		core.SeverityInfo, capture.NewLimiter(perSecond, burst))
	child.Stderr = capture.NewStreamTee(errOut, logs.WithContext(core.Tags{"stream": "stderr"}),
		core.SeverityError, capture.NewLimiter(perSecond, burst))

	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	logger.Debug("msg", "Child process started",
		"component", "run",
		"command", argv[0],
		"pid", child.Process.Pid)

	// Forward termination signals to the child until it exits
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigChan:
				logger.Info("msg", "Forwarding signal to child",
					"component", "run",
					"signal", sig)
				_ = child.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := child.Wait()
	close(done)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}

func (c *RunCommand) Description() string {
	return "Run a program and forward its output"
}

func (c *RunCommand) Help() string {
	return `Run Command - Run a program and forward its output

Output is passed through unchanged. Each write to stdout is also sent as an
info entry and each write to stderr as an error entry, tagged with
source=print, command and stream. The program's exit status is returned.

Usage:
  logdot run [options] -- <program> [args...]

Options:
  --rate <n>    Forwarded writes per second per stream (default: unlimited)
  --burst <n>   Burst for --rate
  Common options: see 'logdot help'

Examples:
  logdot run -- ./backup.sh --full
  logdot run --rate 20 -- ./ingest.sh --all
`
}
