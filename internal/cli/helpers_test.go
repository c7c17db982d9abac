package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const saltmereDoc = "testdata/saltmere.yaml"

// tempDB returns a database path inside the test's temp dir.
func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lorekeep.db")
}

// runCommand executes cmd with args and returns stdout and the error.
func runCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// importSaltmere loads the sample document into dbPath.
func importSaltmere(t *testing.T, dbPath string) {
	t.Helper()
	opts := &RootOptions{Format: "text", Database: dbPath}
	_, err := runCommand(NewImportCommand(opts), saltmereDoc)
	require.NoError(t, err)
}

// unsetEnv clears the given variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
