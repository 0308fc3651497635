// Package format renders commit lists as Markdown tables.
package format

import (
	"fmt"
	"strings"
	"time"

	"commit-digest/internal/model"
)

const (
	// TimeLayout is how commit timestamps appear in the table.
	TimeLayout = "2006-01-02 15:04:05"

	// NoUpdates is written under a repository heading instead of an empty table.
	NoUpdates = "昨日无更新"

	headerRow    = "| 提交时间 | 作者 | 提交信息 |\n"
	separatorRow = "|----------|------|----------|\n"
	lineBreak    = "<br>"
)

// MessageMode selects how multi-line commit messages are laid out.
type MessageMode int

const (
	// ModeJoined puts the whole message in one cell, lines joined by <br>.
	ModeJoined MessageMode = iota
	// ModeRows puts the first line in the commit's row and every further
	// line in its own row with empty time and author cells.
	ModeRows
)

// ParseMessageMode accepts "joined" (or empty) and "rows".
func ParseMessageMode(s string) (MessageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "joined", "br":
		return ModeJoined, nil
	case "rows":
		return ModeRows, nil
	default:
		return ModeJoined, fmt.Errorf("unknown message mode %q, expected 'joined' or 'rows'", s)
	}
}

func (m MessageMode) String() string {
	if m == ModeRows {
		return "rows"
	}
	return "joined"
}

// DefaultTrailerKeys are the message trailers never shown in the table.
var DefaultTrailerKeys = []string{"Signed-off-by", "Co-authored-by"}

// Formatter renders commits for one display time zone.
type Formatter struct {
	Location    *time.Location
	Mode        MessageMode
	TrailerKeys []string
}

// NewFormatter returns a Formatter using the default trailer keys.
func NewFormatter(loc *time.Location, mode MessageMode) *Formatter {
	return &Formatter{
		Location:    loc,
		Mode:        mode,
		TrailerKeys: DefaultTrailerKeys,
	}
}

// Table renders commits as a Markdown table followed by one blank line.
// Zero commits yield the header and separator only.
func (f *Formatter) Table(commits []model.Commit) string {
	var b strings.Builder
	b.WriteString(headerRow)
	b.WriteString(separatorRow)

	for _, c := range commits {
		when := f.FormatTime(c.CommitDate)
		author := escapeCell(c.AuthorName)

		if f.Mode == ModeRows {
			lines := f.MessageLines(c.Message)
			if len(lines) == 0 {
				fmt.Fprintf(&b, "| %s | %s |  |\n", when, author)
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", when, author, lines[0])
			for _, line := range lines[1:] {
				fmt.Fprintf(&b, "|  |  | %s |\n", line)
			}
			continue
		}

		fmt.Fprintf(&b, "| %s | %s | %s |\n", when, author, f.Message(c.Message))
	}

	b.WriteString("\n")
	return b.String()
}

// FormatTime converts t to the display zone.
func (f *Formatter) FormatTime(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}

// MessageLines returns the displayable lines of a commit message: blank lines
// and trailers are dropped and pipes are escaped.
func (f *Formatter) MessageLines(message string) []string {
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || f.isTrailer(line) {
			continue
		}
		lines = append(lines, escapeCell(line))
	}
	return lines
}

// Message returns the single-cell form of a commit message.
func (f *Formatter) Message(message string) string {
	return strings.Join(f.MessageLines(message), lineBreak)
}

// escapeCell keeps a value inside its table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func (f *Formatter) isTrailer(line string) bool {
	for _, key := range f.TrailerKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}
