package artifact

import (
	"context"

	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
)

// Projection is the metadata-only view of an artifact commit: a blob holding the commit
// message, and the ref pointing at it
type Projection struct {
	Ref    string
	Object string
}

// Project writes message as a standalone blob and points the metadata ref of commitSHA at it.
// The blob is content addressed, so projecting the same commit again rewrites nothing.
func Project(ctx context.Context, bin *git.Repository, commitSHA, message string) (*Projection, error) {
	object, err := bin.HashObject(ctx, message)
	if err != nil {
		return nil, err
	}
	ref := naming.MetadataRef(commitSHA)
	if err := bin.UpdateRef(ctx, ref, object, ""); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).WithFields(logging.Fields{
		logging.RefFieldKey:    ref,
		logging.CommitFieldKey: commitSHA,
		"object":               object,
	}).Debug("Projected metadata")
	return &Projection{Ref: ref, Object: object}, nil
}
