// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without a zoneinfo database

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	custom_errors "commit-digest/internal/errors"
	"commit-digest/internal/format"
	"commit-digest/internal/model"
)

// DefaultWatchRepos is the repository list reported on when WATCH_REPOS is unset.
var DefaultWatchRepos = []string{
	"harlanhong/ACTalker",
	"aaxwaz/TalkingMachines",
	"Fantasy-AMAP/fantasy-talking",
	"Tencent-Hunyuan/HunyuanVideo-Avatar",
	"MeiGen-AI/MultiTalk",
	"min-star/fantasy_talking_train",
	"xyz123xyz456/hallo4",
}

// Config holds all configuration for the application.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Debug    bool   `mapstructure:"DEBUG"`
	DryRun   bool   `mapstructure:"DRY_RUN"`

	GithubToken  string   `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL string   `mapstructure:"GITHUB_API_URL"`
	TargetRepo   string   `mapstructure:"GITHUB_REPOSITORY_NAME"`
	WatchRepos   []string `mapstructure:"WATCH_REPOS"`
	TimeZone     string   `mapstructure:"TIME_ZONE"`
	MessageMode  string   `mapstructure:"MESSAGE_MODE"`

	AnalysisEnabled bool   `mapstructure:"ENABLE_ANALYSIS"`
	LLMProvider     string `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey       string `mapstructure:"LLM_API_KEY"`
	LLMModel        string `mapstructure:"LLM_MODEL"`
	LLMBaseURL      string `mapstructure:"LLM_BASE_URL"`
	MaxPromptLen    int    `mapstructure:"MAX_PROMPT_LEN"`
	PromptTemplate  string `mapstructure:"PROMPT_TEMPLATE"`

	DBURL      string `mapstructure:"DB_URL"`
	ListenAddr string `mapstructure:"LISTEN_ADDR"`

	Location *time.Location     `mapstructure:"-"`
	Mode     format.MessageMode `mapstructure:"-"`
}

// Flag names bound to configuration keys.
var flagKeys = map[string]string{
	"github-token":    "GITHUB_TOKEN",
	"repo":            "GITHUB_REPOSITORY_NAME",
	"debug":           "DEBUG",
	"dry-run":         "DRY_RUN",
	"enable-analysis": "ENABLE_ANALYSIS",
	"llm-api-key":     "LLM_API_KEY",
	"llm-model":       "LLM_MODEL",
	"llm-provider":    "LLM_PROVIDER",
	"db-url":          "DB_URL",
	"addr":            "LISTEN_ADDR",
}

// New returns a viper instance with defaults set and environment lookup enabled.
func New() *viper.Viper {
	v := viper.New()

	// Every key needs a default so Unmarshal picks up its environment variable.
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DRY_RUN", false)
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_API_URL", "")
	v.SetDefault("GITHUB_REPOSITORY_NAME", "")
	v.SetDefault("WATCH_REPOS", DefaultWatchRepos)
	v.SetDefault("TIME_ZONE", "Asia/Shanghai")
	v.SetDefault("MESSAGE_MODE", "joined")
	v.SetDefault("ENABLE_ANALYSIS", false)
	v.SetDefault("LLM_PROVIDER", "deepseek")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_BASE_URL", "")
	v.SetDefault("MAX_PROMPT_LEN", 0)
	v.SetDefault("PROMPT_TEMPLATE", "")
	v.SetDefault("DB_URL", "")
	v.SetDefault("LISTEN_ADDR", ":8080")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in flags to its configuration key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional YAML config file and unmarshals the merged settings.
// Precedence: flags, environment, config file, defaults.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.TargetRepo == "" {
		cfg.TargetRepo = v.GetString("GITHUB_REPOSITORY")
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	cfg.WatchRepos = cleanList(cfg.WatchRepos)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	mode, err := format.ParseMessageMode(cfg.MessageMode)
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	if len(cfg.WatchRepos) == 0 {
		return nil, errors.New("WATCH_REPOS must contain at least one repository")
	}
	if _, err := model.ParseRepoIdentifiers(cfg.WatchRepos); err != nil {
		return nil, err
	}
	if cfg.MaxPromptLen < 0 {
		return nil, errors.New("MAX_PROMPT_LEN must not be negative")
	}

	return &cfg, nil
}

// Target returns the repository reports are published to.
func (c *Config) Target() (model.RepoIdentifier, error) {
	if strings.TrimSpace(c.TargetRepo) == "" {
		return model.RepoIdentifier{}, custom_errors.ErrMissingTargetRepo
	}
	return model.ParseRepoIdentifier(c.TargetRepo)
}

// cleanList trims entries and drops empty ones, so "a/b, c/d," works in env values.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
