package cmd_test

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/treeverse/git-recycle-bin/cmd/git-recycle-bin/cmd"
	"github.com/treeverse/git-recycle-bin/pkg/artifact"
	"github.com/treeverse/git-recycle-bin/pkg/config"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	c := exec.Command("git", append([]string{"-C", dir}, args...)...)
	c.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Dev", "GIT_AUTHOR_EMAIL=dev@example.com",
		"GIT_COMMITTER_NAME=Dev", "GIT_COMMITTER_EMAIL=dev@example.com",
	)
	out, err := c.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// setup creates a source repository with a build output and a bare artifact remote, and
// makes the source the working directory
func setup(t *testing.T) (src, remote string) {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", base)
	for _, env := range os.Environ() {
		if key, _, _ := strings.Cut(env, "="); strings.HasPrefix(key, config.EnvPrefix+"_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}

	src = filepath.Join(base, "firmware")
	remote = filepath.Join(base, "bins.git")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "out"), 0o755))
	runGit(t, src, "init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(src, "main.c"), []byte("int main() {}\n"), 0o644))
	runGit(t, src, "add", "main.c")
	runGit(t, src, "commit", "-q", "-m", "Initial commit")
	require.NoError(t, os.WriteFile(filepath.Join(src, "out", "fw.bin"), []byte("firmware v1"), 0o644))
	runGit(t, base, "init", "-q", "--bare", remote)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(src))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return src, remote
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"-q"}, args...))
	err := root.Execute()
	return out.String(), err
}

func remoteRefs(t *testing.T, remote string) map[string]string {
	t.Helper()
	refs := map[string]string{}
	for _, line := range strings.Split(runGit(t, remote, "for-each-ref", "--format=%(refname) %(objectname)"), "\n") {
		if name, sha, ok := strings.Cut(line, " "); ok {
			refs[name] = sha
		}
	}
	return refs
}

func TestCreateAndPush(t *testing.T) {
	src, remote := setup(t)
	head := runGit(t, src, "rev-parse", "HEAD")
	expiry, err := naming.ResolveExpiry("2030-01-01", time.Now())
	require.NoError(t, err)
	branch := "artifact/expire/" + expiry.Formatted + "/firmware@" + head + "/{out}"
	tag := "artifact/latest/firmware@main/{out}"
	args := []string{"create", "--name", "fw", "--path", "out", "--expire", "2030-01-01",
		"--remote", remote, "--push", "--push-tag=yes"}

	out, err := run(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, branch)
	require.Contains(t, out, "(new)")

	refs := remoteRefs(t, remote)
	commit := refs["refs/heads/"+branch]
	require.NotEmpty(t, commit)
	require.Equal(t, commit, refs["refs/tags/"+tag])
	metaRef := "refs/artifact/meta-for-commit/" + commit
	require.Contains(t, refs, metaRef)
	require.Equal(t, "blob", runGit(t, remote, "cat-file", "-t", metaRef))
	require.Equal(t, "out/fw.bin", runGit(t, remote, "ls-tree", "-r", "--name-only", commit))

	// unchanged inputs create and push nothing new
	out, err = run(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "(unchanged)")
	require.Contains(t, out, "branch:   skipped")
	require.Contains(t, out, "metadata: skipped")
	require.Contains(t, out, "tag:      skip")
	require.Equal(t, refs, remoteRefs(t, remote))
}

func TestCreate_RmTmp(t *testing.T) {
	src, remote := setup(t)
	_, err := run(t, "create", "--name", "fw", "--path", "out", "--remote", remote, "--push", "--rm-tmp")
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(src, artifact.ScratchDirName))
	require.Len(t, remoteRefs(t, remote), 2)
}

func TestCreate_RemoteSelf(t *testing.T) {
	src, _ := setup(t)
	_, err := run(t, "create", "--name", "fw", "--path", "out", "--remote", ".", "--push")
	require.NoError(t, err)
	branches := runGit(t, src, "for-each-ref", "--format=%(refname)", "refs/heads/artifact/")
	require.Contains(t, branches, "refs/heads/artifact/expire/")
}

func TestCreate_Policy(t *testing.T) {
	src, remote := setup(t)
	cases := []struct {
		name     string
		args     []string
		expected error
	}{
		{name: "push_without_remote", args: []string{"--push"}, expected: config.ErrPushWithoutRemote},
		{name: "tag_without_push", args: []string{"--push-tag"}, expected: config.ErrPushTagWithoutPush},
		{name: "force_tag_without_force_branch", args: []string{"--remote", remote, "--push", "--force-tag"}, expected: config.ErrForceTagWithoutForce},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"create", "--name", "fw", "--path", "out"}, tt.args...)...)
			require.ErrorIs(t, err, tt.expected)
			require.Equal(t, rberrors.ExitPolicyViolation, rberrors.ExitCode(err))
		})
	}

	t.Run("detached_tag", func(t *testing.T) {
		runGit(t, src, "checkout", "-q", "--detach")
		_, err := run(t, "create", "--name", "fw", "--path", "out", "--remote", remote, "--push", "--push-tag")
		require.ErrorIs(t, err, artifact.ErrDetachedTag)
		require.Equal(t, rberrors.ExitPolicyViolation, rberrors.ExitCode(err))
		require.NoDirExists(t, filepath.Join(src, artifact.ScratchDirName))
	})
}

func TestCreate_InvalidInput(t *testing.T) {
	setup(t)
	_, err := run(t, "create", "--name", "fw", "--path", "missing")
	require.ErrorIs(t, err, naming.ErrArtifactNotFound)
	require.Equal(t, rberrors.ExitInvalidInput, rberrors.ExitCode(err))

	_, err = run(t, "create", "--name", "fw", "--path", "out", "--expire", "when pigs fly")
	require.ErrorIs(t, err, naming.ErrInvalidExpiry)

	_, err = run(t, "create", "--path", "out")
	require.ErrorIs(t, err, config.ErrMissingArtifactName)
}

func TestCreate_Environment(t *testing.T) {
	_, remote := setup(t)
	t.Setenv("GITRB_NAME", "fw")
	t.Setenv("GITRB_PATH", "out")
	t.Setenv("GITRB_REMOTE", remote)
	t.Setenv("GITRB_PUSH", "yes")
	_, err := run(t, "create")
	require.NoError(t, err)
	require.Len(t, remoteRefs(t, remote), 2)
}

func TestExpired(t *testing.T) {
	_, remote := setup(t)
	_, err := run(t, "create", "--name", "fw", "--path", "out", "--expire", "2001-01-01", "--remote", remote, "--push")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join("out", "fw.bin"), []byte("firmware v2"), 0o644))
	_, err = run(t, "create", "--name", "fw", "--path", "out", "--expire", "2030-01-01", "--remote", remote, "--push")
	require.NoError(t, err)
	require.Len(t, remoteRefs(t, remote), 4)

	out, err := run(t, "expired", "--remote", remote)
	require.NoError(t, err)
	require.Contains(t, out, "2001-01-01")
	require.NotContains(t, out, "2030-01-01")
	require.Contains(t, out, "expired")

	out, err = run(t, "expired", "--remote", remote, "--match", "other/*", "--delete")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Len(t, remoteRefs(t, remote), 4)

	out, err = run(t, "expired", "--remote", remote, "--match", "firmware/*", "--delete")
	require.NoError(t, err)
	require.Contains(t, out, "deleted")
	refs := remoteRefs(t, remote)
	require.Len(t, refs, 2)
	for ref := range refs {
		require.NotContains(t, ref, "2001-01-01")
	}
}

func TestClean(t *testing.T) {
	src, _ := setup(t)
	_, err := run(t, "create", "--name", "fw", "--path", "out")
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(src, artifact.ScratchDirName))

	out, err := run(t, "clean", "--path", "out")
	require.NoError(t, err)
	require.Contains(t, out, "Removed")
	require.NoDirExists(t, filepath.Join(src, artifact.ScratchDirName))

	out, err = run(t, "clean", "--path", "out")
	require.NoError(t, err)
	require.Contains(t, out, "Nothing to remove")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "git-recycle-bin version: dev")
}
