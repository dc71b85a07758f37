package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const openingScene = `- lines:
    - text: "Hello."
      event: Bell
    - text: "Wait."
      event: pause
    - text: "Go."
      event: goto
      arg: Hall
`

const hallScene = `- lines:
    - text: "Hall."
    - text: "End."
      event: stop
    - text: "Never."
- lines:
    - text: "Locked."
  conditions:
    - name: expectEqual
      arguments: ["Key,1"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeStory creates a two-scene story and returns its directory.
func writeStory(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "story")
	writeFile(t, dir, "Opening.yaml", openingScene)
	writeFile(t, dir, "Hall.yaml", hallScene)
	return dir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
