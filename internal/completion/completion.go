// Package completion provides shell completion functions for the CLI:
// static enums (output format) and dynamic lookups (character names from
// the API, action names from the registry), cached locally the way the
// teacher's internal/cache does for its own dynamic completions.
package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blentz/artifactsmmo-sub002/internal/actions"
	"github.com/blentz/artifactsmmo-sub002/internal/cache"
	"github.com/blentz/artifactsmmo-sub002/internal/config"
	"github.com/blentz/artifactsmmo-sub002/internal/gameclient"
	"github.com/spf13/cobra"
)

// ValidOutputFormats returns valid values for --output flag completion.
func ValidOutputFormats() []string {
	return []string{"table", "json", "yaml"}
}

// OutputFormatCompletionFunc returns a ValidArgsFunction for output format completion.
func OutputFormatCompletionFunc() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ValidOutputFormats(), cobra.ShellCompDirectiveDefault
	}
}

// NoCompletion returns an empty completion function.
func NoCompletion() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

// Error returns a completion function that shows an error message.
func Error(err error) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{fmt.Sprintf("Error: %v", err)}, cobra.ShellCompDirectiveError
	}
}

// ActionNamesCompletionFunc completes against the full action registry's
// names (static, no network call needed).
func ActionNamesCompletionFunc() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		registry := actions.NewFullRegistry()
		names := make([]string, 0, len(registry.All()))
		for _, d := range registry.All() {
			names = append(names, d.Name)
		}
		return filterCompletions(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// CharacterNamesCompletionFunc returns a ValidArgsFunction completing
// against the account's characters, via GetCharacters, cached locally.
func CharacterNamesCompletionFunc(configFlag func(*cobra.Command) string) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cacheManager, _ := getCacheManager(cmd, configFlag)
		if cacheManager != nil {
			if cached, ok := cacheManager.Get("character-names"); ok {
				return filterCompletions(cached, toComplete), cobra.ShellCompDirectiveNoFileComp
			}
		}

		client, err := getClient(cmd, configFlag)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		characters, err := client.GetCharacters(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		names := make([]string, 0, len(characters))
		for _, c := range characters {
			names = append(names, c.Name)
		}

		if cacheManager != nil {
			_ = cacheManager.Set("character-names", names)
		}

		return filterCompletions(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// getClient builds a GameClient from the resolved config for completion
// purposes only; failures are swallowed by the caller (completions must
// never be intrusive).
func getClient(cmd *cobra.Command, configFlag func(*cobra.Command) string) (gameclient.GameClient, error) {
	path := configFlag(cmd)
	if path == "" {
		path = config.DiscoverPath("")
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	token, err := config.ReadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return gameclient.NewHTTPClient(cfg.ServerURL, token), nil
}

// getCacheManager creates a cache manager scoped to the default cache dir.
func getCacheManager(cmd *cobra.Command, configFlag func(*cobra.Command) string) (*cache.Manager, error) {
	return cache.NewManager("", 5*time.Minute)
}

// filterCompletions filters completions based on the toComplete prefix.
func filterCompletions(completions []string, toComplete string) []string {
	if toComplete == "" {
		return completions
	}

	filtered := make([]string, 0)
	for _, c := range completions {
		parts := strings.Split(c, "\t")
		value := parts[0]
		if strings.HasPrefix(value, toComplete) {
			filtered = append(filtered, c)
		}
	}

	return filtered
}
