package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[Webserver]
Port = 8080
URL = "http://localhost:8080"

[DB]
GormEngine = "sqlite"
Password = "db-password"

[Auth.GitHub]
ClientID = "gh-id"
ClientSecret = "gh-secret"
`

func TestConfigDump(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(testConfig), 0o600))

	for _, args := range [][]string{
		{"config", "dump", "--config", dir},
		{"config", "dump", "--json", "--config", dir},
	} {
		var out bytes.Buffer

		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)

		require.NoError(t, rootCmd.Execute())

		dump := out.String()
		assert.Contains(t, dump, "gh-id")
		assert.NotContains(t, dump, "gh-secret")
		assert.NotContains(t, dump, "db-password")
	}
}
