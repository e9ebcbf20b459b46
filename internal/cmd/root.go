// Package cmd implements the artifactsmmo-agent CLI (spec.md §6.3,
// SPEC_FULL.md §13): the cobra command tree wiring the core GOAP agent
// (gameclient, knowledge, mapcache, planner, executor, goal, loop) to a
// terminal.
package cmd

import (
	"fmt"
	"os"

	"github.com/blentz/artifactsmmo-sub002/internal/completion"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	dataDir   string
	tokenFile string
	logLevel  string
	output    string
	noColor   bool
	compact   bool
)

// rootCmd is the base command when artifactsmmo-agent is invoked with no
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "artifactsmmo-agent",
	Short: "Autonomous GOAP agent for the ArtifactsMMO API",
	Long: `artifactsmmo-agent runs a goal-oriented, cooldown-aware agent loop
against the ArtifactsMMO REST API: it observes a character's state,
selects a goal, plans a sequence of actions with A* search, and executes
it step by step, replanning when the world diverges from what was
predicted.`,
}

// NewRootCommand returns the root command, for testing and dependency
// injection.
func NewRootCommand() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and parses os.Args.
// Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $DATA_PREFIX/config.yaml or $HOME/.artifactsmmo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for persisted knowledge base and map cache (overrides DATA_PREFIX)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "path to the file holding the bearer token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARNING, ERROR")
	rootCmd.PersistentFlags().StringVar(&output, "output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "use compact table layout")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("token_file", rootCmd.PersistentFlags().Lookup("token-file"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("ui.compact", rootCmd.PersistentFlags().Lookup("compact"))

	_ = rootCmd.RegisterFlagCompletionFunc("output", completion.OutputFormatCompletionFunc())
}

// initConfig loads .env files before any subcommand runs; config.LoadWithEnv
// (called per-command via loadConfig) does the actual viper layering.
func initConfig() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if cfgFile == "" {
		return
	}
	if _, err := os.Stat(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: config file %s not readable: %v\n", cfgFile, err)
	}
}
