package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nardi-nardi/naanews-sub000/internal/bootstrap"
	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "naanews version "+bootstrap.Version)
}

func TestMigrateCommand_RejectsDirection(t *testing.T) {
	_, err := run(t, "migrate", "sideways")
	require.Error(t, err)
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  ttl: 60s\n"), 0o600))

	_, err := run(t, "--config", path, "migrate", "up")
	require.ErrorIs(t, err, bootstrap.ErrNoDatabase)
}

func TestSeedCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yml"), "seed")
	require.ErrorIs(t, err, bootstrap.ErrNoDatabase)
}

func TestRenderSeedResult(t *testing.T) {
	var out bytes.Buffer
	renderSeedResult(&out, bootstrap.SeedResult{
		docstore.Roadmaps: 2,
		docstore.Feeds:    6,
	})

	rendered := out.String()
	assert.Contains(t, rendered, "feeds")
	assert.Contains(t, rendered, "roadmaps")
	assert.Contains(t, rendered, "8")
	assert.Less(t, strings.Index(rendered, "feeds"), strings.Index(rendered, "roadmaps"))
}
