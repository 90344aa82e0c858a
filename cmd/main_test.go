package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func executeContext(ctx context.Context, root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["serve"])
	require.True(t, names["migrate"])

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NotNil(t, serve.Flags().Lookup("migrate"))
}

func TestMigrateCommandOnSQLite(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "bms.db"))

	require.NoError(t, executeContext(context.Background(), newRootCommand(), "migrate"))
}

func TestServeStopsWithCancelledContext(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "bms.db"))
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, executeContext(ctx, newRootCommand(), "serve"))
}
