package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Identity names the author or committer of a commit
type Identity struct {
	Name  string
	Email string
}

// CommitTimestamps are the dates written into a commit. They are passed explicitly to the
// single commit-tree process and never set on the calling process.
type CommitTimestamps struct {
	Author    time.Time
	Committer time.Time
}

type CommitOptions struct {
	Timestamps CommitTimestamps
	Author     Identity
	Committer  Identity
}

// formatDate renders t in git's internal date format "<unix> <offset>"
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Unix(), t.Format("-0700"))
}

func (o CommitOptions) env() []string {
	var env []string
	if !o.Timestamps.Author.IsZero() {
		env = append(env, "GIT_AUTHOR_DATE="+formatDate(o.Timestamps.Author))
	}
	if !o.Timestamps.Committer.IsZero() {
		env = append(env, "GIT_COMMITTER_DATE="+formatDate(o.Timestamps.Committer))
	}
	if o.Author.Name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+o.Author.Name)
	}
	if o.Author.Email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+o.Author.Email)
	}
	if o.Committer.Name != "" {
		env = append(env, "GIT_COMMITTER_NAME="+o.Committer.Name)
	}
	if o.Committer.Email != "" {
		env = append(env, "GIT_COMMITTER_EMAIL="+o.Committer.Email)
	}
	return env
}

// InitIdempotent creates the git dir unless it already holds a repository
func (r *Repository) InitIdempotent(ctx context.Context) error {
	if r.gitDir == "" {
		return fmt.Errorf("init without a separate git dir: %w", ErrNotARepository)
	}
	if _, err := os.Stat(filepath.Join(r.gitDir, "HEAD")); err == nil {
		return nil
	}
	_, err := r.Run(ctx, "init", "--quiet")
	return err
}

// ResolveRef returns the object name ref points to, ErrRefNotFound if it does not exist
func (r *Repository) ResolveRef(ctx context.Context, ref string) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--verify", "--quiet", ref)
	if status, ok := exitStatus(err); ok && status == 1 {
		// --verify --quiet exits 1 without output for a missing ref
		return "", fmt.Errorf("%s: %w", ref, ErrRefNotFound)
	}
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("%s: %w", ref, ErrRefNotFound)
	}
	return out, nil
}

// CheckoutOrphanIdempotent points HEAD at branch. A missing branch becomes an unborn orphan
// with an empty index; an existing one keeps its history and gets its tree loaded into the
// index. The work tree is never touched.
func (r *Repository) CheckoutOrphanIdempotent(ctx context.Context, branch string) error {
	ref := "refs/heads/" + branch
	if _, err := r.Run(ctx, "check-ref-format", ref); err != nil {
		return fmt.Errorf("invalid branch name %q: %w", branch, err)
	}
	if _, err := r.Run(ctx, "symbolic-ref", "HEAD", ref); err != nil {
		return err
	}
	if _, err := r.ResolveRef(ctx, ref); errors.Is(err, ErrRefNotFound) {
		_, err = r.Run(ctx, "read-tree", "--empty")
		return err
	} else if err != nil {
		return err
	}
	_, err := r.Run(ctx, "read-tree", ref)
	return err
}

// Stage replaces whatever the index holds at relPath (relative to the work tree) with the
// current content on disk. The scratch git dir itself is never staged.
func (r *Repository) Stage(ctx context.Context, relPath string) error {
	if _, err := r.Run(ctx, "rm", "-r", "--cached", "--quiet", "--ignore-unmatch", "--", relPath); err != nil {
		return err
	}
	args := []string{"add", "--force", "--", relPath}
	if rel, err := filepath.Rel(r.workTree, r.gitDir); err == nil && !strings.HasPrefix(rel, "..") {
		args = append(args, ":(exclude)"+filepath.ToSlash(rel))
	}
	_, err := r.Run(ctx, args...)
	return err
}

// WriteTree writes the index as a tree object and returns its sha
func (r *Repository) WriteTree(ctx context.Context) (string, error) {
	return r.Run(ctx, "write-tree")
}

// TreeOf returns the tree sha of rev, ErrRefNotFound if rev does not resolve
func (r *Repository) TreeOf(ctx context.Context, rev string) (string, error) {
	return r.ResolveRef(ctx, rev+"^{tree}")
}

// CommitTree creates a commit object for tree with an optional parent and returns its sha
func (r *Repository) CommitTree(ctx context.Context, tree, parent, message string, opts CommitOptions) (string, error) {
	args := []string{"commit-tree", tree}
	if parent != "" {
		args = append(args, "-p", parent)
	}
	args = append(args, "-F", "-")
	return r.RunInput(ctx, strings.NewReader(message), opts.env(), args...)
}

// UpdateRef points ref at newValue. When oldValue is set the update only succeeds if ref
// currently holds it (ZeroSHA: ref must not exist).
func (r *Repository) UpdateRef(ctx context.Context, ref, newValue, oldValue string) error {
	args := []string{"update-ref", ref, newValue}
	if oldValue != "" {
		args = append(args, oldValue)
	}
	_, err := r.Run(ctx, args...)
	return err
}

// HashObject writes content as a blob and returns its sha
func (r *Repository) HashObject(ctx context.Context, content string) (string, error) {
	return r.RunInput(ctx, strings.NewReader(content), nil, "hash-object", "-w", "--stdin")
}

// CatFile returns the pretty printed content of rev
func (r *Repository) CatFile(ctx context.Context, rev string) (string, error) {
	return r.Run(ctx, "cat-file", "-p", rev)
}

// SetTag creates or moves the lightweight tag name to sha
func (r *Repository) SetTag(ctx context.Context, name, sha string) error {
	return r.UpdateRef(ctx, "refs/tags/"+name, sha, "")
}

// AddRemoteIdempotent adds remote name, or updates its url when it already exists
func (r *Repository) AddRemoteIdempotent(ctx context.Context, name, url string) error {
	current, err := r.Run(ctx, "remote", "get-url", name)
	if err != nil {
		_, err = r.Run(ctx, "remote", "add", name, url)
		return err
	}
	if current == url {
		return nil
	}
	_, err = r.Run(ctx, "remote", "set-url", name, url)
	return err
}
