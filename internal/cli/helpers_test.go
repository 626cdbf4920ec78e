package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const testRecords = `[
  {"key": "Heating", "values": [
    {"date": "12/01/2013", "count": "4"},
    {"date": "12/02/2013", "count": "6"},
    {"date": "12/03/2013", "count": "5"},
    {"date": "12/04/2013", "count": "7"}
  ]},
  {"key": "Noise", "values": [
    {"date": "12/01/2013", "count": "1"},
    {"date": "12/02/2013", "count": "3"},
    {"date": "12/03/2013", "count": "2"},
    {"date": "12/04/2013", "count": "2"}
  ]},
  {"key": "Graffiti", "values": [
    {"date": "12/01/2013", "count": "9"},
    {"date": "12/02/2013", "count": "9"},
    {"date": "12/03/2013", "count": "9"},
    {"date": "12/04/2013", "count": "9"}
  ]}
]`

// isolate points the XDG directories at fresh temporary directories.
func isolate(t *testing.T) (cacheHome, configHome string) {
	t.Helper()
	cacheHome, configHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	return cacheHome, configHome
}

// writeInput writes the test records into dir and returns the path.
func writeInput(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "requests.json")
	if err := os.WriteFile(p, []byte(testRecords), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}
