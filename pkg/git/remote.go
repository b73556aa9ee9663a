package git

import (
	"context"
	"strings"
)

// ListRemoteRefs returns ref name -> object name for refs on remote matching pattern
func (r *Repository) ListRemoteRefs(ctx context.Context, remote, pattern string) (map[string]string, error) {
	out, err := r.Run(ctx, "ls-remote", remote, pattern)
	if err != nil {
		return nil, err
	}
	return parseLsRemote(out), nil
}

func parseLsRemote(out string) map[string]string {
	refs := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		sha, name, found := strings.Cut(strings.TrimSpace(line), "\t")
		if !found || strings.HasSuffix(name, "^{}") {
			continue
		}
		refs[name] = sha
	}
	return refs
}

// RemoteRefValue returns the object name of exactly ref on remote, empty when the remote
// does not have it
func (r *Repository) RemoteRefValue(ctx context.Context, remote, ref string) (string, error) {
	refs, err := r.ListRemoteRefs(ctx, remote, ref)
	if err != nil {
		return "", err
	}
	// ls-remote matches patterns by suffix, keep the exact name only
	return refs[ref], nil
}

// FetchObject fetches ref from remote into the same local ref and returns the object content.
// Only the object ref points to (and what it reaches) is transferred.
func (r *Repository) FetchObject(ctx context.Context, remote, ref string) (string, error) {
	if _, err := r.Run(ctx, "fetch", "--quiet", "--no-tags", remote, "+"+ref+":"+ref); err != nil {
		return "", err
	}
	return r.CatFile(ctx, ref)
}

// Push publishes the local ref to the same name on remote
func (r *Repository) Push(ctx context.Context, remote, ref string, force bool) error {
	args := []string{"push", "--quiet"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, ref+":"+ref)
	_, err := r.Run(ctx, args...)
	return err
}

// DeleteRemoteRef removes ref from remote
func (r *Repository) DeleteRemoteRef(ctx context.Context, remote, ref string) error {
	_, err := r.Run(ctx, "push", "--quiet", remote, ":"+ref)
	return err
}
