// Package publish sends artifact refs to a remote artifact repository: the branch, then its
// metadata ref, then the latest tag after resolving any conflict with the remote's tag.
package publish

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -source=store.go -destination=mock/store.go -package=mock

import "context"

// Store is the remote side of the local artifact repository
type Store interface {
	// RemoteRefValue returns the object ref points to on remote, empty when absent
	RemoteRefValue(ctx context.Context, remote, ref string) (string, error)
	// ListRemoteRefs returns ref -> object for refs on remote matching pattern
	ListRemoteRefs(ctx context.Context, remote, pattern string) (map[string]string, error)
	// FetchObject fetches ref from remote and returns the content it points to
	FetchObject(ctx context.Context, remote, ref string) (string, error)
	// Push sends the local ref to remote under the same name
	Push(ctx context.Context, remote, ref string, force bool) error
	DeleteRemoteRef(ctx context.Context, remote, ref string) error
}
