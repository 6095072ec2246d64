package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "idstore.yaml")
	content := "storage_backend: bolt\nbolt_path: " + filepath.Join(dir, "idstore.db") + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, seedFile = "", ""
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "idstore dev")
}

func TestSeedThenCleanup(t *testing.T) {
	cfgPath := writeConfig(t)
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`
clients:
  - client_id: web
api_scopes:
  - name: read
`), 0o600))

	out, err := run(t, "--config", cfgPath, "seed", "-f", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 clients, 0 identity resources, 0 api resources, 1 api scopes")

	out, err = run(t, "--config", cfgPath, "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "persisted grants removed: 0")
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_backend: dts\n"), 0o600))

	_, err := run(t, "--config", path, "cleanup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage_backend")
}

func TestSeedRequiresFile(t *testing.T) {
	_, err := run(t, "--config", writeConfig(t), "seed")
	require.Error(t, err)
}
