package cmd

import (
	"bytes"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "token", "version"}, names)
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "duplicate-as version dev\n", out.String())
}

func TestMigrateCommand_RejectsDirection(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "sideways"})

	assert.Error(t, root.Execute())
}

func TestRunMigration_InvalidDirection(t *testing.T) {
	err := runMigration(&migrate.Migrate{}, "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir()+"/missing.yml")
	t.Setenv("AUTH_JWT_SECRET", "")
	cfgFile = ""

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token"})

	assert.Error(t, root.Execute())
}
