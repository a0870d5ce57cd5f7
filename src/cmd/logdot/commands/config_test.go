// FILE: logdot/src/cmd/logdot/commands/config_test.go
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_Path(t *testing.T) {
	t.Setenv("LOGDOT_CONFIG_FILE", "/etc/logdot/custom.toml")

	var buf bytes.Buffer
	cmd := &ConfigCommand{output: &buf, errOut: &buf}
	require.NoError(t, cmd.Execute([]string{"path"}))
	assert.Equal(t, "/etc/logdot/custom.toml\n", buf.String())
}

func TestConfigCommand_InitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logdot.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	var buf bytes.Buffer
	cmd := &ConfigCommand{output: &buf, errOut: &buf}
	err := cmd.Execute([]string{"init", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))
}

func TestConfigCommand_NoSubcommandShowsHelp(t *testing.T) {
	var buf bytes.Buffer
	cmd := &ConfigCommand{output: &buf, errOut: &buf}
	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, buf.String(), "Config Command")
}

func TestConfigCommand_UnknownSubcommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := &ConfigCommand{output: &buf, errOut: &buf}
	err := cmd.Execute([]string{"edit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit")
}
