package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Structure(t *testing.T) {
	cmd := NewRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	migrate, _, err := cmd.Find([]string{"migrate"})
	require.NoError(t, err)
	var migrateSubs []string
	for _, sub := range migrate.Commands() {
		migrateSubs = append(migrateSubs, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status", "version"}, migrateSubs)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("migrate"))
}

func TestMigrateCmd_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ACCOUNTS_DATABASE_URL", "")
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "version"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestLoadAppConfig_FromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ACCOUNTS_DATABASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8081
database:
  url: postgres://accounts@localhost:5432/accounts
`), 0o600))

	configFile = path
	t.Cleanup(func() { configFile = "" })

	cfg, err := loadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "postgres://accounts@localhost:5432/accounts", cfg.Database.URL)
}
