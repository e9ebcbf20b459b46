package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd, "root command should not be nil")

	configFlag := cmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, configFlag, "--config flag should be registered")
	assert.Equal(t, "string", configFlag.Value.Type())

	dataDirFlag := cmd.PersistentFlags().Lookup("data-dir")
	assert.NotNil(t, dataDirFlag, "--data-dir flag should be registered")
	assert.Equal(t, "string", dataDirFlag.Value.Type())

	tokenFileFlag := cmd.PersistentFlags().Lookup("token-file")
	assert.NotNil(t, tokenFileFlag, "--token-file flag should be registered")
	assert.Equal(t, "string", tokenFileFlag.Value.Type())

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	assert.NotNil(t, logLevelFlag, "--log-level flag should be registered")
	assert.Equal(t, "string", logLevelFlag.Value.Type())

	outputFlag := cmd.PersistentFlags().Lookup("output")
	assert.NotNil(t, outputFlag, "--output flag should be registered")
	assert.Equal(t, "string", outputFlag.Value.Type())

	noColorFlag := cmd.PersistentFlags().Lookup("no-color")
	assert.NotNil(t, noColorFlag, "--no-color flag should be registered")
	assert.Equal(t, "bool", noColorFlag.Value.Type())

	compactFlag := cmd.PersistentFlags().Lookup("compact")
	assert.NotNil(t, compactFlag, "--compact flag should be registered")
	assert.Equal(t, "bool", compactFlag.Value.Type())
}

func TestRootCommand_Execution(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd, "root command should not be nil")

	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.NoError(t, err, "executing root command with no subcommand should not error")
}

func TestRootCommand_FlagParsing(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd, "root command should not be nil")

	err := cmd.ParseFlags([]string{"--log-level", "DEBUG", "--compact"})
	require.NoError(t, err, "parsing flags should not error")

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Equal(t, "DEBUG", logLevelFlag.Value.String())

	compactFlag := cmd.PersistentFlags().Lookup("compact")
	require.NotNil(t, compactFlag)
	assert.Equal(t, "true", compactFlag.Value.String())
}
