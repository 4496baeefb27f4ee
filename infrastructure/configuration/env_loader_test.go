package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(envFile, []byte(`
# comment line
NEW_KEY=fresh
QUOTED_KEY="quoted value"
PRESET_KEY=from-file
not a pair
`), 0o600))

	t.Setenv("PRESET_KEY", "from-env")
	t.Setenv("NEW_KEY", "")
	os.Unsetenv("NEW_KEY")
	os.Unsetenv("QUOTED_KEY")

	LoadEnvFromFile(envFile, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "fresh", os.Getenv("NEW_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED_KEY"))
	assert.Equal(t, "from-env", os.Getenv("PRESET_KEY"))
}
