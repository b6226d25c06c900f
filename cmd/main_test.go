package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_AcceptsServeFlags(t *testing.T) {
	root := newRootCmd()

	require.NoError(t, root.ParseFlags([]string{"--skip-migrate"}))

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.Equal(t, "true", serve.Flags().Lookup("skip-migrate").Value.String(),
		"root and serve share the flag value")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Nil(t, migrate.Flags().Lookup("skip-migrate"))
}
