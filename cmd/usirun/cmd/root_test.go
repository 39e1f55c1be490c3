package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"info", "bestmove", "mate"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestBestmoveFlagDefaults(t *testing.T) {
	flag := bestmoveCmd.Flags().Lookup("position")
	require.NotNil(t, flag)
	assert.Equal(t, "startpos", flag.DefValue)

	flag = bestmoveCmd.Flags().Lookup("byoyomi")
	require.NotNil(t, flag)
	assert.Equal(t, "3s", flag.DefValue)
}
