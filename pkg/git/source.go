package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Head returns the full sha of HEAD
func (r *Repository) Head(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "HEAD")
}

// ShortSHA returns the abbreviated form of rev
func (r *Repository) ShortSHA(ctx context.Context, rev string) (string, error) {
	return r.Run(ctx, "rev-parse", "--short", rev)
}

// ShowMessage returns the raw commit message of rev
func (r *Repository) ShowMessage(ctx context.Context, rev string) (string, error) {
	return r.Run(ctx, "show", "--no-patch", "--format=%B", rev)
}

// CommitDates returns the author and committer times of rev, keeping their recorded offsets
func (r *Repository) CommitDates(ctx context.Context, rev string) (author, committer time.Time, err error) {
	out, err := r.Run(ctx, "show", "--no-patch", "--format=%aI%n%cI", rev)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("unexpected dates output %q: %w", out, ErrGitError)
	}
	author, err = time.Parse(time.RFC3339, strings.TrimSpace(lines[0]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("author date: %w", err)
	}
	committer, err = time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("committer date: %w", err)
	}
	return author, committer, nil
}

// AbbrevRef returns the checked out branch name, or "HEAD" when detached
func (r *Repository) AbbrevRef(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// RemoteURL returns the configured url of remote, empty if the remote has none
func (r *Repository) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := r.Run(ctx, "config", "--get", "remote."+remote+".url")
	if status, ok := exitStatus(err); ok && status == 1 {
		// git config exits 1 when the key is missing
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

// AbsoluteGitDir returns the absolute path of the repository's git dir
func (r *Repository) AbsoluteGitDir(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--absolute-git-dir")
}

// StatusPorcelain returns the porcelain v1 status of tracked files
func (r *Repository) StatusPorcelain(ctx context.Context) (string, error) {
	return r.Run(ctx, "status", "--porcelain=1", "--untracked-files=no")
}

// Upstream returns the short name of the upstream of branch, empty if none is set
func (r *Repository) Upstream(ctx context.Context, branch string) (string, error) {
	return r.Run(ctx, "for-each-ref", "--format=%(upstream:short)", "refs/heads/"+branch)
}

// CountCommits returns the number of commits in revRange, e.g. "origin/main..main"
func (r *Repository) CountCommits(ctx context.Context, revRange string) (int, error) {
	out, err := r.Run(ctx, "rev-list", "--count", revRange)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("rev-list count %q: %w", out, ErrGitError)
	}
	return n, nil
}
