package digest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"commit-digest/internal/format"
	"commit-digest/internal/model"
	"commit-digest/internal/prompt"
	"commit-digest/internal/window"
)

// Analyzer completes a system/user prompt pair.
type Analyzer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config is everything the Assembler needs besides its collaborators.
type Config struct {
	// Repos is the ordered list of 'owner/name' repositories to report on.
	Repos     []string
	Location  *time.Location
	Formatter *format.Formatter
	Prompts   *prompt.Builder

	AnalysisEnabled bool
	// AnalysisNotice is rendered in place of analyses when analysis is
	// enabled but no Analyzer is available.
	AnalysisNotice string
}

// Assembler orchestrates fetching, formatting and analysis into a Report.
// Work is strictly sequential: one repository, then one commit, at a time.
type Assembler struct {
	fetcher  *Fetcher
	source   CommitSource
	analyzer Analyzer
	logger   *slog.Logger
	repos    []model.RepoIdentifier
	cfg      Config
}

// NewAssembler creates a new Assembler. analyzer may be nil.
func NewAssembler(source CommitSource, analyzer Analyzer, logger *slog.Logger, cfg Config) (*Assembler, error) {
	parsedRepos, err := model.ParseRepoIdentifiers(cfg.Repos)
	if err != nil {
		return nil, err
	}
	if len(parsedRepos) == 0 {
		return nil, errors.New("at least one repository must be configured")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Formatter == nil {
		cfg.Formatter = format.NewFormatter(cfg.Location, format.ModeJoined)
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompt.NewBuilder(prompt.DefaultTemplate(), 0, logger)
	}

	return &Assembler{
		fetcher:  NewFetcher(source, logger),
		source:   source,
		analyzer: analyzer,
		logger:   logger,
		repos:    parsedRepos,
		cfg:      cfg,
	}, nil
}

// Assemble builds the report for the day before now.
func (a *Assembler) Assemble(ctx context.Context, now time.Time) *Report {
	w := window.Yesterday(now, a.cfg.Location)
	a.logger.Info("Assembling report", "date", w.Date(), "repositories", len(a.repos), "analysis", a.cfg.AnalysisEnabled)

	report := &Report{Window: w}
	for _, id := range a.repos {
		section := a.buildSection(ctx, id, w)
		if failed := section.Failed(); len(failed) > 0 {
			a.logger.Warn("Some commit analyses failed", "owner", id.Owner, "repo", id.Name, "failed", len(failed), "total", len(section.Analyses))
		}
		report.Sections = append(report.Sections, section)
	}
	return report
}

func (a *Assembler) buildSection(ctx context.Context, id model.RepoIdentifier, w window.Window) Section {
	result := a.fetcher.Fetch(ctx, id, w)
	section := Section{
		Repo:            id,
		Fetch:           result,
		AnalysisEnabled: a.cfg.AnalysisEnabled,
	}
	if len(result.Commits) > 0 {
		section.Table = a.cfg.Formatter.Table(result.Commits)
	}

	if !a.cfg.AnalysisEnabled {
		return section
	}

	switch {
	case len(result.Commits) == 0:
		section.AnalysisNotice = noCommitsToStudy
	case a.analyzer == nil:
		section.AnalysisNotice = a.cfg.AnalysisNotice
	default:
		section.Analyses = a.analyze(ctx, id, result.Commits)
	}
	return section
}

// analyze runs the LLM over every commit. A failed commit is logged and
// recorded; the remaining commits are still analyzed.
func (a *Assembler) analyze(ctx context.Context, id model.RepoIdentifier, commits []model.Commit) []CommitAnalysis {
	logger := a.logger.With("owner", id.Owner, "repo", id.Name)
	analyses := make([]CommitAnalysis, 0, len(commits))

	for _, c := range commits {
		logger.Info("Analyzing commit", "sha", c.ShortSHA())

		files := c.Files
		var filesErr error
		if files == nil {
			files, filesErr = a.source.CommitFiles(ctx, id.Owner, id.Name, c.SHA)
			if filesErr != nil {
				logger.Warn("Failed to load commit files", "sha", c.SHA, "error", filesErr)
			}
		}

		pair := a.cfg.Prompts.Build(c, files, filesErr)
		text, err := a.analyzer.Complete(ctx, pair.System, pair.User)
		if err != nil {
			logger.Error("LLM analysis failed", "sha", c.SHA, "error", err)
			analyses = append(analyses, CommitAnalysis{Commit: c, Err: err})
			continue
		}
		logger.Debug("LLM analysis result", "sha", c.SHA, "analysis", text)
		analyses = append(analyses, CommitAnalysis{Commit: c, Text: text})
	}
	return analyses
}
