// Package commitmsg renders provenance records as artifact commit messages and parses
// trailers back out of them.
package commitmsg

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	SchemaVersion = 1

	// DateLayout is how source commit times are written in trailers
	DateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"
	// dateParseLayout also accepts an unpadded day of month
	dateParseLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

	DetachedBranch = "Detached HEAD"
	CleanStatus    = "clean"
	UnknownCount   = "?"

	titleMaxLen = 30
)

// Trailer keys, in the order they are emitted
const (
	KeySchemaVersion = "artifact-schema-version"
	KeyName          = "artifact-name"
	KeyMimeType      = "artifact-mime-type"
	KeyTreePrefix    = "artifact-tree-prefix"
	KeySrcRelPath    = "src-git-relpath"
	KeyCommitTitle   = "src-git-commit-title"
	KeyCommitSHA     = "src-git-commit-sha"
	KeyChangeID      = "src-git-commit-changeid"
	KeyAuthorTime    = "src-git-commit-time-author"
	KeyCommitterTime = "src-git-commit-time-commit"
	KeyBranch        = "src-git-branch"
	KeyRepoName      = "src-git-repo-name"
	KeyRepoURL       = "src-git-repo-url"
	KeyCommitsAhead  = "src-git-commits-ahead"
	KeyCommitsBehind = "src-git-commits-behind"
	KeyStatus        = "src-git-status"
)

// ProvenanceRecord describes where an artifact came from. It is the body of the artifact
// commit and of its metadata ref.
type ProvenanceRecord struct {
	SchemaVersion int
	Name          string
	MimeType      string
	// TreePrefix is the artifact path inside the artifact commit's tree
	TreePrefix string
	// SrcRelPath is the artifact path relative to the source tree root
	SrcRelPath    string
	CommitTitle   string
	CommitSHA     string
	ShortSHA      string
	ChangeID      *string
	AuthorTime    time.Time
	CommitterTime time.Time
	// Branch is the source branch, or "HEAD" when detached
	Branch   string
	RepoName string
	RepoURL  string
	Ahead    *int
	Behind   *int
	// Status is the porcelain working tree status, possibly multi-line
	Status string
}

// FormatDate renders t the way trailers carry it
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a trailer date produced by FormatDate
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateParseLayout, strings.TrimSpace(s))
}

// ExtractChangeID returns the value of the last "Change-Id:" line of a commit message
func ExtractChangeID(message string) *string {
	var changeID *string
	for _, line := range strings.Split(message, "\n") {
		rest, ok := strings.CutPrefix(line, "Change-Id:")
		if !ok {
			continue
		}
		if v := strings.TrimSpace(rest); v != "" {
			changeID = &v
		}
	}
	return changeID
}

func truncateEllipsis(maxLen int, s string) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
