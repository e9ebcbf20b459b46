// Package config loads the agent's configuration: server URL, token file,
// cooldown/TTL/planner tuning, and goal thresholds. It mirrors the
// teacher's layered viper setup (flags > env ARTIFACTS_* > config file >
// defaults) but the fields name the game-agent's own knobs instead of the
// teacher's project/document settings.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables spec.md leaves as defaults
// (cooldown buffer, map TTL, planner max_nodes, ...) plus the goal
// thresholds that parameterize goal.DefaultTemplates.
type Config struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir"`
	TokenFile string `mapstructure:"token_file" yaml:"token_file"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`

	Cooldown CooldownConfig `mapstructure:"cooldown" yaml:"cooldown"`
	MapCache MapCacheConfig `mapstructure:"map_cache" yaml:"map_cache"`
	Planner  PlannerConfig  `mapstructure:"planner" yaml:"planner"`
	Loop     LoopConfig     `mapstructure:"loop" yaml:"loop"`
	Goals    GoalConfig     `mapstructure:"goals" yaml:"goals"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
}

// CooldownConfig tunes the CooldownGate (spec.md 4.1).
type CooldownConfig struct {
	BufferSeconds float64 `mapstructure:"buffer_seconds" yaml:"buffer_seconds"`
}

// MapCacheConfig tunes the MapCache (spec.md 4.2).
type MapCacheConfig struct {
	TTL string `mapstructure:"ttl" yaml:"ttl"`
}

// PlannerConfig tunes the GOAPPlanner (spec.md 4.5).
type PlannerConfig struct {
	MaxNodes int `mapstructure:"max_nodes" yaml:"max_nodes"`
}

// LoopConfig tunes the AIPlayerLoop (spec.md 4.8).
type LoopConfig struct {
	RefreshTTL        string `mapstructure:"refresh_ttl" yaml:"refresh_ttl"`
	SaveInterval      string `mapstructure:"save_interval" yaml:"save_interval"`
	ReplanBackoff     string `mapstructure:"replan_backoff" yaml:"replan_backoff"`
	MaxRuntime        string `mapstructure:"max_runtime" yaml:"max_runtime"` // "" = unbounded
	MaxGatherAttempts int    `mapstructure:"max_gather_attempts" yaml:"max_gather_attempts"`
}

// GoalConfig parameterizes goal.DefaultTemplates.
type GoalConfig struct {
	TargetLevel     int            `mapstructure:"target_level" yaml:"target_level"`
	TargetGold      int            `mapstructure:"target_gold" yaml:"target_gold"`
	SkillThresholds map[string]int `mapstructure:"skill_thresholds" yaml:"skill_thresholds"`
}

// UIConfig controls diagnostic/status output: color, compact tables, and
// whether long output is paged.
type UIConfig struct {
	Compact bool   `mapstructure:"compact" yaml:"compact"`
	Color   string `mapstructure:"color" yaml:"color"` // auto, always, never
	Pager   bool   `mapstructure:"pager" yaml:"pager"`
}

// Defaults returns the spec-mandated default tuning (spec.md 4.1-4.8).
func Defaults() *Config {
	return &Config{
		ServerURL: "https://api.artifactsmmo.com",
		TokenFile: "TOKEN",
		LogLevel:  "INFO",
		Cooldown: CooldownConfig{
			BufferSeconds: 1,
		},
		MapCache: MapCacheConfig{
			TTL: "180s",
		},
		Planner: PlannerConfig{
			MaxNodes: 10000,
		},
		Loop: LoopConfig{
			RefreshTTL:        "5s",
			SaveInterval:      "300s",
			ReplanBackoff:     "2s",
			MaxRuntime:        "",
			MaxGatherAttempts: 20,
		},
		Goals: GoalConfig{
			TargetLevel:     10,
			TargetGold:      1000,
			SkillThresholds: map[string]int{},
		},
		UI: UIConfig{
			Compact: false,
			Color:   "auto",
			Pager:   true,
		},
	}
}

// MapCacheTTL parses MapCache.TTL, falling back to spec.md's 180s default.
func (c *Config) MapCacheTTL() time.Duration {
	return parseDurationOr(c.MapCache.TTL, 180*time.Second)
}

// RefreshTTL parses Loop.RefreshTTL.
func (c *Config) RefreshTTL() time.Duration {
	return parseDurationOr(c.Loop.RefreshTTL, 5*time.Second)
}

// SaveInterval parses Loop.SaveInterval, falling back to spec.md's 300s
// default.
func (c *Config) SaveInterval() time.Duration {
	return parseDurationOr(c.Loop.SaveInterval, 300*time.Second)
}

// ReplanBackoff parses Loop.ReplanBackoff.
func (c *Config) ReplanBackoff() time.Duration {
	return parseDurationOr(c.Loop.ReplanBackoff, 2*time.Second)
}

// MaxRuntime parses Loop.MaxRuntime; zero means unbounded.
func (c *Config) MaxRuntime() time.Duration {
	if c.Loop.MaxRuntime == "" {
		return 0
	}
	return parseDurationOr(c.Loop.MaxRuntime, 0)
}

// CooldownBuffer returns the configured cooldown buffer as a duration.
func (c *Config) CooldownBuffer() time.Duration {
	return time.Duration(c.Cooldown.BufferSeconds * float64(time.Second))
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Load reads the config file at path; a missing file yields Defaults().
func Load(path string) (*Config, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path atomically, following the knowledge/map
// persistence idiom (temp-file + rename) rather than a direct write, so a
// crash mid-write never leaves a truncated config.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// DiscoverPath resolves the config file path: explicit flag, then
// $DATA_PREFIX/config.yaml, then $HOME/.artifactsmmo/config.yaml.
func DiscoverPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	if prefix := os.Getenv("DATA_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".artifactsmmo/config.yaml"
	}
	return filepath.Join(homeDir, ".artifactsmmo", "config.yaml")
}

// DataDir resolves the data directory for persisted caches (spec.md 6.2):
// cfg.DataDir if set, else $DATA_PREFIX, else the current working
// directory.
func DataDir(cfg *Config) string {
	if cfg != nil && cfg.DataDir != "" {
		return cfg.DataDir
	}
	if prefix := os.Getenv("DATA_PREFIX"); prefix != "" {
		return prefix
	}
	return "."
}

// LoadWithEnv layers viper's flags>env>file>defaults resolution over Load,
// binding ARTIFACTS_*-prefixed environment variables the way the teacher's
// internal/config.LoadWithEnv binds EMERGENT_*.
func LoadWithEnv(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("ARTIFACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"server_url", "data_dir", "token_file", "log_level",
		"cooldown.buffer_seconds", "map_cache.ttl", "planner.max_nodes",
		"loop.refresh_ttl", "loop.save_interval", "loop.replan_backoff",
		"loop.max_runtime", "loop.max_gather_attempts",
		"goals.target_level", "goals.target_gold",
		"ui.compact", "ui.color", "ui.pager",
	} {
		_ = v.BindEnv(key)
	}

	defaults := Defaults()
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("token_file", defaults.TokenFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("cooldown.buffer_seconds", defaults.Cooldown.BufferSeconds)
	v.SetDefault("map_cache.ttl", defaults.MapCache.TTL)
	v.SetDefault("planner.max_nodes", defaults.Planner.MaxNodes)
	v.SetDefault("loop.refresh_ttl", defaults.Loop.RefreshTTL)
	v.SetDefault("loop.save_interval", defaults.Loop.SaveInterval)
	v.SetDefault("loop.replan_backoff", defaults.Loop.ReplanBackoff)
	v.SetDefault("loop.max_gather_attempts", defaults.Loop.MaxGatherAttempts)
	v.SetDefault("goals.target_level", defaults.Goals.TargetLevel)
	v.SetDefault("goals.target_gold", defaults.Goals.TargetGold)
	v.SetDefault("ui.color", defaults.UI.Color)
	v.SetDefault("ui.pager", defaults.UI.Pager)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ShouldUseColor determines if color output should be used (spec.md 6.3's
// diagnostic formatting is excluded from core but still needs a policy).
func ShouldUseColor(cfg *Config, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if cfg != nil && cfg.UI.Color == "never" {
		return false
	}
	return true
}

// ShouldUseCompact reports whether tabular output should use the compact
// layout.
func ShouldUseCompact(cfg *Config) bool {
	return cfg != nil && cfg.UI.Compact
}

// ShouldUsePager reports whether long diagnostic output should page.
func ShouldUsePager(cfg *Config) bool {
	return cfg == nil || cfg.UI.Pager
}

// ReadToken reads the single-line bearer token from tokenFile (spec.md
// §6.4: "single line of ASCII").
func ReadToken(tokenFile string) (string, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
