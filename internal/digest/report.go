package digest

import (
	"fmt"
	"strings"

	"commit-digest/internal/format"
	"commit-digest/internal/model"
	"commit-digest/internal/window"
)

const (
	reportHeading    = "每日更新报告"
	issueTitleLabel  = "仓库更新报告"
	analysisHeading  = "的LLM分析结果"
	noCommitsToStudy = "没有提交可供分析"
)

// CommitAnalysis is the analysis outcome of one commit. Err is set when the
// LLM call failed; such commits are left out of the rendered report.
type CommitAnalysis struct {
	Commit model.Commit
	Text   string
	Err    error
}

// Section is one repository's part of the report.
type Section struct {
	Repo  model.RepoIdentifier
	Fetch FetchResult
	// Table is the rendered commit table, empty when there were no commits.
	Table string

	AnalysisEnabled bool
	// AnalysisNotice replaces the analysis blocks when analysis could not run.
	AnalysisNotice string
	Analyses       []CommitAnalysis
}

// Report is the assembled digest for one day.
type Report struct {
	Window   window.Window
	Sections []Section
}

// Date returns the reported day as YYYY-MM-DD.
func (r *Report) Date() string {
	return r.Window.Date()
}

// Title returns the issue title.
func (r *Report) Title() string {
	return fmt.Sprintf("%s (%s)", issueTitleLabel, r.Date())
}

// Markdown renders the whole document.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s（%s）\n\n", reportHeading, r.Date())
	for _, s := range r.Sections {
		s.render(&b)
	}
	return b.String()
}

func (s Section) render(b *strings.Builder) {
	fmt.Fprintf(b, "## %s\n\n", s.Repo.FullName())
	if s.Table != "" {
		b.WriteString(s.Table)
	} else {
		b.WriteString(format.NoUpdates + "\n\n")
	}

	if !s.AnalysisEnabled {
		return
	}

	fmt.Fprintf(b, "## %s %s\n\n", s.Repo.FullName(), analysisHeading)
	if s.AnalysisNotice != "" {
		b.WriteString(s.AnalysisNotice + "\n\n")
		return
	}
	for _, a := range s.Analyses {
		if a.Err != nil {
			continue
		}
		fmt.Fprintf(b, "### %s\n%s\n%s\n%s\n\n", a.Commit.SHA, a.Commit.URL, a.Commit.Message, a.Text)
	}
}

// Failed returns the analyses whose LLM call failed.
func (s Section) Failed() []CommitAnalysis {
	var failed []CommitAnalysis
	for _, a := range s.Analyses {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}
