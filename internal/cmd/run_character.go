package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/blentz/artifactsmmo-sub002/internal/config"
	"github.com/blentz/artifactsmmo-sub002/internal/loop"
	"github.com/spf13/cobra"
)

var runCharacterCmd = &cobra.Command{
	Use:   "run-character <name>",
	Short: "Run the AI loop for a character until stopped",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunCharacter,
}

func init() {
	runCharacterCmd.ValidArgsFunction = completion.CharacterNamesCompletionFunc(func(cmd *cobra.Command) string { return cfgFile })
	rootCmd.AddCommand(runCharacterCmd)
}

func runCharacterPidFile(dataDir, character string) string {
	return filepath.Join(dataDir, "characters", character, "run.pid")
}

func runRunCharacter(cmd *cobra.Command, args []string) error {
	character := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ag, err := buildAgent(cfg, character)
	if err != nil {
		return err
	}

	pidPath := runCharacterPidFile(config.DataDir(cfg), character)
	if err := os.MkdirAll(filepath.Dir(pidPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	l := loop.New(character, ag.Client, ag.KB, ag.MapCache, ag.Gate, ag.Registry, ag.Goals, ag.Executor, ag.Log, loop.Params{
		MaxNodes:          cfg.Planner.MaxNodes,
		RefreshTTL:        cfg.RefreshTTL(),
		SaveInterval:      cfg.SaveInterval(),
		ReplanBackoff:     cfg.ReplanBackoff(),
		MaxRuntime:        cfg.MaxRuntime(),
		MaxGatherAttempts: cfg.Loop.MaxGatherAttempts,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stop-character writes a stop sentinel next to the pid file; poll it
	// alongside the signal context so a separate CLI invocation can ask
	// this process to shut down.
	stopPath := pidPath + ".stop"
	go watchStopFile(ctx, stopPath, l)

	ag.Log.Infof("running %s (pid %d); Ctrl-C or `stop-character %s` to stop", character, os.Getpid(), character)
	if err := l.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	os.Remove(stopPath)
	return nil
}

func watchStopFile(ctx context.Context, path string, l *loop.Loop) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(path); err == nil {
				l.Stop()
				return
			}
		}
	}
}
