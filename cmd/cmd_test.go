package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TRIPBOARD_MAP_KEY", "")
	t.Setenv("TRIPBOARD_CHAT_API_KEY", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "Tripboard dev\n", out)
}

func TestGeocodeCommand_Offline(t *testing.T) {
	out, err := run(t, "geocode", "--format", "quiet", "Paris")
	require.NoError(t, err)
	assert.Equal(t, "2.352200,48.856600\n", out)

	out, err = run(t, "geocode", "--format", "json", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, `"fallback"`)
	assert.Contains(t, out, "116.397428")
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	out, err := run(t, "export", path, "--place", "Rome", "--place", "Kyoto")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 notes)")
	assert.FileExists(t, path)
}

func TestAskCommand_NeedsKey(t *testing.T) {
	_, err := run(t, "ask", "--location", "Rome", "where to eat?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chat api key")
}

func TestRootCommand_BadDates(t *testing.T) {
	t.Cleanup(func() { tripFrom = "" })
	_, err := run(t, "--from", "someday soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}
