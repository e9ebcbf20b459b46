package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/config"
	"github.com/blentz/artifactsmmo-sub002/internal/cooldown"
	"github.com/blentz/artifactsmmo-sub002/internal/executor"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/blentz/artifactsmmo-sub002/internal/goal"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/logging"
	"github.com/blentz/artifactsmmo-sub002/internal/mapcache"
	"github.com/spf13/cobra"
)

// loadConfig resolves the effective config for a command invocation,
// following flags > env ARTIFACTS_* > config file > defaults (spec.md
// §6.3).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DiscoverPath("")
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if tokenFile != "" {
		cfg.TokenFile = tokenFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// newLogger builds the leveled stderr logger for a command run.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

// newClient constructs the resty-backed GameClient from the resolved
// token file.
func newClient(cfg *config.Config) (gameclient.GameClient, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newHTTPClient returns the concrete *gameclient.HTTPClient, for the
// account-management commands (create-character, delete-character) that
// need methods outside the narrow GameClient interface.
func newHTTPClient(cfg *config.Config) (*gameclient.HTTPClient, error) {
	token, err := config.ReadToken(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file %s: %w", cfg.TokenFile, err)
	}
	return gameclient.NewHTTPClient(cfg.ServerURL, token), nil
}

// knowledgeBasePath and mapCachePath locate a character's persisted state
// under the resolved data directory (spec.md §6.2).
func knowledgeBasePath(cfg *config.Config, character string) string {
	return filepath.Join(config.DataDir(cfg), "characters", character, "knowledge.yaml")
}

func mapCachePath(cfg *config.Config, character string) string {
	return filepath.Join(config.DataDir(cfg), "map_cache.yaml")
}

// buildAgent assembles every shared handle a command needs to drive one
// character: client, knowledge base, map cache, cooldown gate, action
// registry, goal manager, and executor.
type agent struct {
	Client   gameclient.GameClient
	KB       *knowledge.Base
	MapCache *mapcache.Cache
	Gate     *cooldown.Gate
	Registry *actions.Registry
	Goals    *goal.Manager
	Executor *executor.Executor
	Log      *logging.Logger
}

func buildAgent(cfg *config.Config, character string) (*agent, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	kb := knowledge.New(knowledgeBasePath(cfg, character))
	if err := kb.Load(); err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	mc := mapcache.New(mapCachePath(cfg, character), cfg.MapCacheTTL())
	if err := mc.Load(); err != nil {
		return nil, fmt.Errorf("load map cache: %w", err)
	}

	gate := cooldown.New(cooldown.WithBuffer(cfg.CooldownBuffer()))
	registry := actions.NewFullRegistry()
	goals := goal.New(goal.DefaultTemplates(cfg.Goals.TargetLevel, cfg.Goals.TargetGold, cfg.Goals.SkillThresholds)...)
	exec := executor.New(registry, gate, client)

	return &agent{
		Client:   client,
		KB:       kb,
		MapCache: mc,
		Gate:     gate,
		Registry: registry,
		Goals:    goals,
		Executor: exec,
		Log:      newLogger(cfg),
	}, nil
}
