// cmd/digest/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"commit-digest/internal/archive"
	"commit-digest/internal/config"
	"commit-digest/internal/database"
	"commit-digest/internal/digest"
	"commit-digest/internal/format"
	"commit-digest/internal/github"
	"commit-digest/internal/llm"
	"commit-digest/internal/model"
	"commit-digest/internal/prompt"
	"commit-digest/internal/publish"
)

func main() {
	// A missing .env file is fine; variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Application error", "error", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Publish a daily digest of commits across watched repositories",
		Long: `Collect yesterday's commits of every watched repository, render them as a
Markdown report with optional LLM analysis, and open it as an issue.

Examples:
  digest --repo acme/reports
  digest --enable-analysis --llm-provider openai --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML config file")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("db-url", "", "Postgres URL of the report archive")

	f := cmd.Flags()
	f.String("github-token", "", "GitHub personal access token")
	f.String("repo", "", "repository the report issue is opened on (owner/name)")
	f.Bool("enable-analysis", false, "analyze each commit with an LLM")
	f.String("llm-api-key", "", "LLM provider API key")
	f.String("llm-model", "", "LLM model name")
	f.String("llm-provider", "", "LLM provider: deepseek, openai or gemini")
	f.Bool("dry-run", false, "print the report instead of opening an issue")

	cmd.AddCommand(newServeCmd(v, &configFile))
	return cmd
}

// setup binds flags, loads configuration and installs the JSON logger.
func setup(cmd *cobra.Command, v *viper.Viper, configFile string) (*config.Config, *slog.Logger, error) {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	setLogLevel(cfg.LogLevel, logLevel)

	logger.Info("Configuration loaded successfully", "repositories", len(cfg.WatchRepos), "time_zone", cfg.TimeZone)
	return cfg, logger, nil
}

// run executes one digest: fetch, render, analyze, publish and archive.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	runID := uuid.New()
	logger = logger.With("run_id", runID.String())

	target, err := cfg.Target()
	if err != nil {
		return err
	}

	ghClient, err := newGithubClient(cfg, logger)
	if err != nil {
		return err
	}
	if rl, err := ghClient.RateLimit(ctx); err != nil {
		logger.Debug("Could not read rate limit", github.ErrorAttrs(err)...)
	} else {
		logger.Debug("GitHub rate limit", "limit", rl.Limit, "remaining", rl.Remaining)
	}

	if _, err := ghClient.GetRepository(ctx, target.Owner, target.Name); err != nil {
		logger.Error("Failed to get target repository", github.ErrorAttrs(err)...)
		return fmt.Errorf("target repository %s is not accessible: %w", target, err)
	}
	logger.Info("Target repository", "repo", target.FullName())

	analyzer, notice, closeAnalyzer := newAnalyzer(ctx, cfg, logger)
	defer closeAnalyzer()

	builder, err := newPromptBuilder(cfg, logger)
	if err != nil {
		return err
	}

	assembler, err := digest.NewAssembler(ghClient, analyzer, logger, digest.Config{
		Repos:           cfg.WatchRepos,
		Location:        cfg.Location,
		Formatter:       format.NewFormatter(cfg.Location, cfg.Mode),
		Prompts:         builder,
		AnalysisEnabled: cfg.AnalysisEnabled,
		AnalysisNotice:  notice,
	})
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}

	report := assembler.Assemble(ctx, time.Now())
	body := report.Markdown()
	logger.Debug("Report preview", "title", report.Title(), "length", len(body), "body", body)

	var issue *model.Issue
	if cfg.DryRun {
		logger.Info("Dry run, not creating an issue")
		fmt.Fprintln(out, body)
	} else {
		issue, err = publish.NewPublisher(ghClient, logger).Publish(ctx, target, report.Title(), body)
		if err != nil {
			return err
		}
	}

	if cfg.DBURL != "" {
		if err := archiveReport(ctx, cfg.DBURL, runID, report, issue, logger); err != nil {
			logger.Error("Failed to archive report", "error", err)
		}
	}

	logger.Info("Digest finished", "date", report.Date())
	return nil
}

func newGithubClient(cfg *config.Config, logger *slog.Logger) (*github.Client, error) {
	if cfg.GithubToken == "" {
		logger.Warn("No GitHub token provided, using unauthenticated client")
	}
	client := github.NewClient(cfg.GithubToken, logger)
	if cfg.GithubAPIURL == "" {
		return client, nil
	}
	client, err := client.WithBaseURL(cfg.GithubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_API_URL: %w", err)
	}
	return client, nil
}

// newAnalyzer returns a nil analyzer and the reason as a notice when analysis
// is enabled but no provider can be built.
func newAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (digest.Analyzer, string, func()) {
	noop := func() {}
	if !cfg.AnalysisEnabled {
		return nil, "", noop
	}

	completer, err := llm.New(ctx, llm.Options{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
	}, logger)
	if err != nil {
		logger.Warn("LLM analysis unavailable", "error", err)
		return nil, err.Error(), noop
	}

	if closer, ok := completer.(io.Closer); ok {
		return completer, "", func() { closer.Close() }
	}
	return completer, "", noop
}

func newPromptBuilder(cfg *config.Config, logger *slog.Logger) (*prompt.Builder, error) {
	tmpl := prompt.DefaultTemplate()
	if cfg.PromptTemplate != "" {
		loaded, err := prompt.LoadTemplate(cfg.PromptTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt template: %w", err)
		}
		tmpl = loaded
	}
	return prompt.NewBuilder(tmpl, cfg.MaxPromptLen, logger), nil
}

func archiveReport(ctx context.Context, dbURL string, runID uuid.UUID, report *digest.Report, issue *model.Issue, logger *slog.Logger) error {
	if err := database.Migrate(dbURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	_, err = archive.NewArchiver(dbpool, logger).Save(ctx, runID, report, issue)
	return err
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
