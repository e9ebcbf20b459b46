package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/config"
	"github.com/spf13/cobra"
)

var stopCharacterCmd = &cobra.Command{
	Use:   "stop-character <name>",
	Short: "Ask a running run-character process to stop gracefully",
	Args:  cobra.ExactArgs(1),
	RunE:  runStopCharacter,
}

func init() {
	stopCharacterCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(stopCharacterCmd)
}

func runStopCharacter(cmd *cobra.Command, args []string) error {
	character := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pidPath := runCharacterPidFile(config.DataDir(cfg), character)
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return fmt.Errorf("%s does not appear to be running (no pid file): %w", character, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupt pid file %s: %w", pidPath, err)
	}

	// Drop a stop sentinel the running loop's signal-context watcher polls,
	// then nudge it with SIGTERM in case it's blocked in a syscall.
	if err := os.WriteFile(pidPath+".stop", []byte{}, 0o644); err != nil {
		return fmt.Errorf("write stop sentinel: %w", err)
	}
	if process, err := os.FindProcess(pid); err == nil {
		_ = process.Signal(syscall.SIGTERM)
	}

	fmt.Printf("stop requested for %s (pid %d)\n", character, pid)
	return nil
}
