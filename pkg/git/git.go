// Package git runs the git CLI on behalf of the recycle bin. A Repository targets either a
// source working tree (git -C <dir>) or the scratch artifact repository, which keeps its git
// dir apart from the work tree it stages from. Every command blocks until git exits and a
// non-zero status is reported as ErrGitError with git's stderr attached.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/treeverse/git-recycle-bin/pkg/logging"
)

// ZeroSHA as old value for UpdateRef asserts that the ref does not exist yet
const ZeroSHA = "0000000000000000000000000000000000000000"

type Repository struct {
	// dir is the cwd for every command
	dir string
	// gitDir and workTree are set for the scratch repository only
	gitDir   string
	workTree string
}

// NewRepository returns a Repository for the working tree containing dir
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// NewBinRepository returns a Repository whose git dir lives at gitDir and whose work tree is
// workTree. The git dir does not need to exist yet, see InitIdempotent.
func NewBinRepository(gitDir, workTree string) *Repository {
	return &Repository{dir: workTree, gitDir: gitDir, workTree: workTree}
}

func (r *Repository) GitDir() string {
	return r.gitDir
}

func (r *Repository) args(args []string) []string {
	if r.gitDir == "" {
		return append([]string{"-C", r.dir}, args...)
	}
	return append([]string{"--git-dir=" + r.gitDir, "--work-tree=" + r.workTree}, args...)
}

// Command returns the configured *exec.Cmd without running it
func (r *Repository) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", r.args(args)...)
	if r.gitDir != "" {
		// pathspecs are given relative to the work tree
		cmd.Dir = r.workTree
	}
	// locale independent output, we parse some of it
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	return cmd
}

// Run executes git and returns its trimmed stdout
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	return r.RunInput(ctx, nil, nil, args...)
}

// RunInput executes git feeding stdin (may be nil) with env appended to the process
// environment of this single command
func (r *Repository) RunInput(ctx context.Context, stdin io.Reader, env []string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.Command(ctx, args...)
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.FromContext(ctx).WithField("dir", r.dir).Tracef("Run: git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), err, ErrNoGit)
		}
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s): %w",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()), ErrGitError)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// exitStatus returns the exit status of the git process that produced err, if it ran at all
func exitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	return exitErr.ExitCode(), true
}

// GetRepositoryPath Returns the git repository root path if dir is a directory inside a git repository, otherwise returns error
func GetRepositoryPath(ctx context.Context, dir string) (string, error) {
	out, err := NewRepository(dir).Run(ctx, "rev-parse", "--show-toplevel")
	if err == nil {
		return out, nil
	}
	if strings.Contains(err.Error(), "not a git repository") {
		return "", fmt.Errorf("%s: %w", dir, ErrNotARepository)
	}
	return "", err
}
