package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortd/internal/app"
)

func TestGetAppFromContext(t *testing.T) {
	_, err := GetAppFromContext(context.Background())
	assert.Error(t, err)

	want := &app.App{}
	ctx := context.WithValue(context.Background(), appKey, want)
	got, err := GetAppFromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestRootRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"preview", "commit", "undo", "query", "index", "logs", "suggest", "serve", "doctor",
	} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
