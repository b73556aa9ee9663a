package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/treeverse/git-recycle-bin/pkg/commitmsg"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
)

// Decision is what to do with the latest tag on the remote
type Decision int

const (
	DecisionPush Decision = iota
	DecisionForcePush
	DecisionSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionPush:
		return "push"
	case DecisionForcePush:
		return "force-push"
	case DecisionSkip:
		return "skip"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Decide compares source committer times. remote is nil when the remote has no tag. Times are
// compared at second resolution, the precision commit dates carry.
func Decide(local time.Time, remote *time.Time, override bool) Decision {
	switch {
	case remote == nil:
		return DecisionPush
	case local.Unix() > remote.Unix():
		return DecisionForcePush
	case override:
		return DecisionForcePush
	default:
		return DecisionSkip
	}
}

// TagRequest asks to publish Tag (a name under artifact/latest/) pointing at Commit
type TagRequest struct {
	Tag    string
	Commit string
	// LocalCommitTime is the committer time of the source commit the artifact was built from
	LocalCommitTime time.Time
	// Override forces the tag even when the remote's artifact is not older
	Override bool
}

type TagOutcome struct {
	Ref              string
	Decision         Decision
	RemoteCommit     string
	RemoteCommitTime *time.Time
}

// TagRef is the full ref name of a latest tag
func TagRef(tag string) string {
	return "refs/tags/" + tag
}

// ResolveTag publishes a latest tag unless the remote already points it at an artifact built
// from a newer source commit. The check and the push are not atomic: two producers racing may
// both push, and the last push wins.
func ResolveTag(ctx context.Context, store Store, remote string, req TagRequest) (*TagOutcome, error) {
	ref := TagRef(req.Tag)
	log := logging.FromContext(ctx).WithFields(logging.Fields{
		logging.TagFieldKey:    req.Tag,
		logging.RemoteFieldKey: remote,
	})
	outcome := &TagOutcome{Ref: ref}

	remoteCommit, err := store.RemoteRefValue(ctx, remote, ref)
	if err != nil {
		return nil, fmt.Errorf("query remote tag %s: %w", req.Tag, err)
	}
	outcome.RemoteCommit = remoteCommit
	if remoteCommit == "" {
		log.Infof("Bin-remote does not have a tag named %s -- we'll publish it.", req.Tag)
	} else {
		log.Infof("Bin-remote already has a tag named %s pointing to %s.", req.Tag, short(remoteCommit))
		if remoteCommit == req.Commit {
			log.Info("Remote tag already points at our artifact.")
			outcome.Decision = DecisionSkip
			return outcome, nil
		}
		remoteTime, err := remoteCommitTime(ctx, store, remote, remoteCommit)
		if err != nil {
			return nil, err
		}
		outcome.RemoteCommitTime = &remoteTime
		log.Infof("Our artifact %s has src committer-time:   %s (%d)", short(req.Commit), commitmsg.FormatDate(req.LocalCommitTime), req.LocalCommitTime.Unix())
		log.Infof("Their artifact %s has src committer-time: %s (%d)", short(remoteCommit), commitmsg.FormatDate(remoteTime), remoteTime.Unix())
	}

	outcome.Decision = Decide(req.LocalCommitTime, outcome.RemoteCommitTime, req.Override)
	switch {
	case outcome.Decision == DecisionSkip:
		log.Info("Our artifact is not newer than theirs. Leaving remote tag as-is.")
		return outcome, nil
	case outcome.RemoteCommitTime == nil:
	case req.LocalCommitTime.Unix() > outcome.RemoteCommitTime.Unix():
		log.Info("Our artifact is newer than theirs. Updating...")
	default:
		log.Info("Our artifact is not newer than theirs. Forcing update to remote tag.")
	}
	// moving an existing tag always needs force
	if err := store.Push(ctx, remote, ref, outcome.Decision == DecisionForcePush); err != nil {
		return nil, fmt.Errorf("push tag %s: %w", req.Tag, err)
	}
	return outcome, nil
}

func remoteCommitTime(ctx context.Context, store Store, remote, commit string) (time.Time, error) {
	metaRef := naming.MetadataRef(commit)
	meta, err := store.FetchObject(ctx, remote, metaRef)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch %s: %w", metaRef, err)
	}
	committed, err := commitmsg.Parse(meta).CommitterTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %w", metaRef, ErrRemoteMetadata, err)
	}
	return committed, nil
}

func short(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
