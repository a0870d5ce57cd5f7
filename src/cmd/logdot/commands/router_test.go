// FILE: logdot/src/cmd/logdot/commands/router_test.go
package commands

import (
	"bytes"
	"testing"

	"logdot/src/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(buf *bytes.Buffer) *CommandRouter {
	router := NewCommandRouter()
	router.output = buf
	router.commands["version"] = &VersionCommand{output: buf}
	router.commands["help"] = &HelpCommand{router: router, output: buf}
	router.commands["config"] = &ConfigCommand{output: buf, errOut: buf}
	return router
}

func TestRouter_NoCommand(t *testing.T) {
	var buf bytes.Buffer
	handled, err := newTestRouter(&buf).Route([]string{"logdot"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestRouter_UnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	handled, err := newTestRouter(&buf).Route([]string{"logdot", "bogus"})
	require.Error(t, err)
	assert.False(t, handled)
	assert.Contains(t, err.Error(), "unknown command: bogus")
}

func TestRouter_VersionAliases(t *testing.T) {
	for _, arg := range []string{"version", "-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			var buf bytes.Buffer
			handled, err := newTestRouter(&buf).Route([]string{"logdot", arg})
			require.NoError(t, err)
			assert.True(t, handled)
			assert.Equal(t, version.String()+"\n", buf.String())
		})
	}
}

func TestRouter_GeneralHelpListsCommands(t *testing.T) {
	var buf bytes.Buffer
	handled, err := newTestRouter(&buf).Route([]string{"logdot", "--help"})
	require.NoError(t, err)
	assert.True(t, handled)

	out := buf.String()
	for _, name := range []string{"send", "metric", "pipe", "run", "config", "version", "help"} {
		assert.Contains(t, out, "  "+name)
	}
	assert.Contains(t, out, "Forward stdin lines as log entries")
}

func TestRouter_CommandHelp(t *testing.T) {
	t.Run("HelpFlag", func(t *testing.T) {
		var buf bytes.Buffer
		handled, err := newTestRouter(&buf).Route([]string{"logdot", "send", "--help"})
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Contains(t, buf.String(), "Send Command")
	})

	t.Run("HelpSubcommand", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newTestRouter(&buf).Route([]string{"logdot", "help", "metric"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Metric Command")
	})

	t.Run("HelpUnknown", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newTestRouter(&buf).Route([]string{"logdot", "help", "bogus"})
		assert.Error(t, err)
	})

	t.Run("HelpAfterSeparatorBelongsToProgram", func(t *testing.T) {
		var buf bytes.Buffer
		router := newTestRouter(&buf)
		rec := &recordingCommand{}
		router.commands["run"] = rec

		_, err := router.Route([]string{"logdot", "run", "--", "tool", "--help"})
		require.NoError(t, err)
		assert.Equal(t, []string{"--", "tool", "--help"}, rec.args)
		assert.Empty(t, buf.String())
	})
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	assert.Equal(t, "exit status 3", err.Error())
}

type recordingCommand struct {
	args []string
}

func (r *recordingCommand) Execute(args []string) error {
	r.args = args
	return nil
}

func (r *recordingCommand) Description() string { return "records arguments" }
func (r *recordingCommand) Help() string        { return "recording help" }
