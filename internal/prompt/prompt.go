package prompt

import (
	"fmt"
	"log/slog"
	"strings"

	"commit-digest/internal/model"
)

const (
	// DefaultMaxPatchLen is the patch length above which a patch is truncated.
	DefaultMaxPatchLen = 100000
	// DefaultTruncatedPatchLen is how much of an oversized patch is kept.
	DefaultTruncatedPatchLen = 10000
)

// Pair is the system/user prompt pair for one commit.
type Pair struct {
	System string
	User   string
}

// Builder formats commit data for the LLM.
type Builder struct {
	Template          Template
	MaxPatchLen       int
	TruncatedPatchLen int
	// MaxPromptLen caps the user prompt size in bytes, dropping diffs first;
	// 0 disables the cap.
	MaxPromptLen int
	Logger       *slog.Logger
}

// NewBuilder returns a Builder with the default truncation limits.
func NewBuilder(tmpl Template, maxPromptLen int, logger *slog.Logger) *Builder {
	return &Builder{
		Template:          tmpl,
		MaxPatchLen:       DefaultMaxPatchLen,
		TruncatedPatchLen: DefaultTruncatedPatchLen,
		MaxPromptLen:      maxPromptLen,
		Logger:            logger,
	}
}

// Build returns the prompt pair for c. files are the commit's file changes;
// filesErr is the error hit while loading them, if any.
func (b *Builder) Build(c model.Commit, files []model.FileChange, filesErr error) Pair {
	user := b.BuildUserPrompt(c, files, filesErr)
	if b.Logger != nil {
		b.Logger.Debug("Built analysis prompt", "sha", c.SHA, "length", len(user), "prompt", user)
	}
	return Pair{
		System: b.Template.SystemPrompt,
		User:   user,
	}
}

const (
	promptSuffix  = "\n---\n\n"
	omittedMarker = "  * (diff omitted: prompt size limit reached)\n"
)

// BuildUserPrompt formats one commit and its file changes.
//
// With MaxPromptLen set, the header, every file bullet and the suffix are
// always written and diffs are dropped until the whole prompt fits. Only a
// header and file list that alone exceed the cap can push past it.
func (b *Builder) BuildUserPrompt(c model.Commit, files []model.FileChange, filesErr error) string {
	var sb strings.Builder

	sb.WriteString("待分析的提交信息如下:\n\n")
	fmt.Fprintf(&sb, "- 提交: %s\n", c.SHA)
	fmt.Fprintf(&sb, "- 作者: %s\n", c.AuthorName)
	fmt.Fprintf(&sb, "- 消息: %s\n", c.Message)
	sb.WriteString("- 修改文件:\n")

	if filesErr != nil {
		fmt.Fprintf(&sb, "  * 无法获取文件详情: %v\n", filesErr)
		sb.WriteString(promptSuffix)
		return sb.String()
	}

	bullets := make([]string, len(files))
	blocks := make([]string, len(files))
	fixed := sb.Len() + len(promptSuffix)
	pending := 0
	for i, f := range files {
		bullets[i] = fmt.Sprintf("  * %s: %s (+%d/-%d)\n", b.Template.StatusLabel(f), f.Path, f.Additions, f.Deletions)
		fixed += len(bullets[i])
		if f.Patch != "" {
			blocks[i] = "```diff\n" + b.truncatePatch(f.Patch) + "\n```\n"
			pending++
		}
	}

	// used counts bytes of diffs and markers already written; each diff not
	// yet decided keeps room for its marker.
	used := 0
	for i := range files {
		sb.WriteString(bullets[i])
		if blocks[i] == "" {
			continue
		}
		pending--

		if b.MaxPromptLen > 0 && fixed+used+len(blocks[i])+pending*len(omittedMarker) > b.MaxPromptLen {
			sb.WriteString(omittedMarker)
			used += len(omittedMarker)
			continue
		}
		sb.WriteString(blocks[i])
		used += len(blocks[i])
	}

	sb.WriteString(promptSuffix)
	return sb.String()
}

// truncatePatch keeps the first TruncatedPatchLen characters of a patch
// longer than MaxPatchLen characters.
func (b *Builder) truncatePatch(patch string) string {
	// Cheap check first: byte length bounds rune length from above.
	if len(patch) <= b.MaxPatchLen {
		return patch
	}
	runes := []rune(patch)
	if len(runes) <= b.MaxPatchLen {
		return patch
	}
	return string(runes[:b.TruncatedPatchLen])
}
