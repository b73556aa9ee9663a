package commitmsg

import (
	"fmt"
	"strconv"
	"strings"
)

const description = "This is a (binary) artifact with expiry. Expiry can be changed."

// Title is the first line of the artifact commit message
func (r *ProvenanceRecord) Title() string {
	return fmt.Sprintf("artifact: %s@%s: %s @(%s)", r.RepoName, r.ShortSHA, r.Name,
		strings.TrimSpace(truncateEllipsis(titleMaxLen, r.CommitTitle)))
}

func optionalCount(n *int) string {
	if n == nil {
		return UnknownCount
	}
	return strconv.Itoa(*n)
}

// Emit renders the record. Every line is trimmed and the output is stable for equal records,
// which lets an unchanged artifact reuse its commit.
func Emit(r *ProvenanceRecord) string {
	branch := r.Branch
	if branch == "HEAD" {
		branch = DetachedBranch
	}
	trailers := [][2]string{
		{KeySchemaVersion, strconv.Itoa(r.SchemaVersion)},
		{KeyName, r.Name},
		{KeyMimeType, r.MimeType},
		{KeyTreePrefix, r.TreePrefix},
		{KeySrcRelPath, r.SrcRelPath},
		{KeyCommitTitle, r.CommitTitle},
		{KeyCommitSHA, r.CommitSHA},
	}
	if r.ChangeID != nil {
		trailers = append(trailers, [2]string{KeyChangeID, *r.ChangeID})
	}
	trailers = append(trailers,
		[2]string{KeyAuthorTime, FormatDate(r.AuthorTime)},
		[2]string{KeyCommitterTime, FormatDate(r.CommitterTime)},
		[2]string{KeyBranch, branch},
		[2]string{KeyRepoName, r.RepoName},
		[2]string{KeyRepoURL, r.RepoURL},
		[2]string{KeyCommitsAhead, optionalCount(r.Ahead)},
		[2]string{KeyCommitsBehind, optionalCount(r.Behind)},
	)

	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = CleanStatus
	}
	for _, line := range strings.Split(status, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			trailers = append(trailers, [2]string{KeyStatus, line})
		}
	}

	lines := []string{r.Title(), "", description, ""}
	for _, kv := range trailers {
		lines = append(lines, kv[0]+": "+kv[1])
	}
	return trimLines(strings.Join(lines, "\n"))
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
