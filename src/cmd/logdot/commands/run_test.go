// FILE: logdot/src/cmd/logdot/commands/run_test.go
package commands

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"logdot/src/internal/transport"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunChild_TeesOutput(t *testing.T) {
	requireShell(t)
	logs, mem := newTestLogs()
	var stdout, stderr bytes.Buffer

	err := runChild([]string{"sh", "-c", "echo hello; echo oops >&2"},
		nil, &stdout, &stderr, logs, 0, 0, log.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, "hello\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())

	require.Equal(t, 2, mem.Count(transport.LogSingle))
	byMessage := map[string]string{}
	for i := range mem.Requests() {
		body := mem.Body(i)
		byMessage[gjson.Get(body, "message").String()] = body
	}

	out := byMessage["hello"]
	require.NotEmpty(t, out)
	assert.Equal(t, "info", gjson.Get(out, "severity").String())
	assert.Equal(t, "stdout", gjson.Get(out, "tags.stream").String())
	assert.Equal(t, "sh", gjson.Get(out, "tags.command").String())
	assert.Equal(t, "print", gjson.Get(out, "tags.source").String())

	errBody := byMessage["oops"]
	require.NotEmpty(t, errBody)
	assert.Equal(t, "error", gjson.Get(errBody, "severity").String())
	assert.Equal(t, "stderr", gjson.Get(errBody, "tags.stream").String())
}

func TestRunChild_ExitCode(t *testing.T) {
	requireShell(t)
	logs, _ := newTestLogs()
	var out bytes.Buffer

	err := runChild([]string{"sh", "-c", "exit 3"}, nil, &out, &out, logs, 0, 0, log.NewLogger())
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestRunChild_Stdin(t *testing.T) {
	requireShell(t)
	logs, _ := newTestLogs()
	var out bytes.Buffer

	err := runChild([]string{"sh", "-c", "cat"}, strings.NewReader("piped\n"), &out, &out, logs, 0, 0, log.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, "piped\n", out.String())
}

func TestRunChild_MissingProgram(t *testing.T) {
	logs, mem := newTestLogs()
	var out bytes.Buffer

	err := runChild([]string{"/nonexistent/logdot-test-binary"}, nil, &out, &out, logs, 0, 0, log.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
	assert.Empty(t, mem.Requests())
}

func TestRunCommand_NoProgram(t *testing.T) {
	var buf bytes.Buffer
	cmd := &RunCommand{output: &buf, errOut: &buf}
	err := cmd.Execute([]string{"--rate", "5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no program given")
}
