package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_Key_IdenticalConfigsCollapse(t *testing.T) {
	a := ServerConfig{Command: []string{"gopls"}, Extensions: []string{"go"}}
	b := ServerConfig{Command: []string{"gopls"}, Extensions: []string{"go"}}
	assert.Equal(t, a.Key(), b.Key())
}

func TestServerConfig_HandlesExtension_TrimsLeadingDot(t *testing.T) {
	c := ServerConfig{Extensions: []string{".ts", "tsx"}}
	assert.True(t, c.HandlesExtension("ts"))
	assert.True(t, c.HandlesExtension(".tsx"))
	assert.False(t, c.HandlesExtension("go"))
}

func TestNormalizedRestartInterval_FloorsToPointOne(t *testing.T) {
	v := 0.01
	c := ServerConfig{RestartInterval: &v}
	got, ok := c.NormalizedRestartInterval()
	assert.True(t, ok)
	assert.Equal(t, 0.1, got)
}

func TestNormalizedRestartInterval_Unset(t *testing.T) {
	c := ServerConfig{}
	_, ok := c.NormalizedRestartInterval()
	assert.False(t, ok)
}

func TestValidate_RequiresCommandAndExtensions(t *testing.T) {
	cfg := &Config{Servers: []ServerConfig{{Extensions: []string{"go"}}}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command is required")

	cfg = &Config{Servers: []ServerConfig{{Command: []string{"gopls"}}}}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extensions configured")
}

func TestValidate_RequiresAtLeastOneServer(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())
}

func TestLoad_TOMLAndJSONAgree(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "lspbridge.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[servers]]
command = ["gopls"]
extensions = ["go"]
`), 0o644))

	jsonPath := filepath.Join(dir, "lspbridge.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"servers":[{"command":["gopls"],"extensions":["go"]}]}`), 0o644))

	fromTOML, err := Load(tomlPath)
	require.NoError(t, err)
	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON.Servers[0].Command, fromTOML.Servers[0].Command)
	assert.Equal(t, fromJSON.Servers[0].Extensions, fromTOML.Servers[0].Extensions)
}

func TestLoad_UnrecognizedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lspbridge.ini")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolveRootDir_DefaultsToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolveRootDir(ServerConfig{})
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestResolveRootDir_UsesConfiguredRoot(t *testing.T) {
	got, err := ResolveRootDir(ServerConfig{RootDir: "/tmp/project"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project", got)
}
