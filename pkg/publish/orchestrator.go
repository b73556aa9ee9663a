package publish

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gobwas/glob"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
)

// Action taken for one ref
type Action string

const (
	ActionPushed  Action = "pushed"
	ActionForced  Action = "forced"
	ActionSkipped Action = "skipped"
)

type RefReport struct {
	Ref    string
	Action Action
}

// Report of a Publish call. Tag is nil when no tag was requested.
type Report struct {
	Branch   RefReport
	Metadata RefReport
	Tag      *TagOutcome
}

// Request describes one artifact to publish
type Request struct {
	// Branch is the artifact branch name, without refs/heads/
	Branch string
	Commit string
	// MetadataRef and MetadataObject come from the metadata projection of Commit
	MetadataRef    string
	MetadataObject string
	// Tag is the latest tag name, empty when there is none
	Tag             string
	LocalCommitTime time.Time

	ForceBranch bool
	PushTag     bool
	ForceTag    bool
}

type Orchestrator struct {
	store  Store
	remote string
}

func NewOrchestrator(store Store, remote string) *Orchestrator {
	return &Orchestrator{store: store, remote: remote}
}

// Publish pushes the branch, then the metadata ref, then, when requested, the latest tag.
// The first failure stops everything after it, so metadata is never published for a branch
// the remote does not have, nor a tag for it.
func (o *Orchestrator) Publish(ctx context.Context, req Request) (*Report, error) {
	if o.remote == "" {
		return nil, ErrNoRemote
	}
	if req.PushTag && req.Tag == "" {
		return nil, ErrNoTag
	}
	ctx = logging.AddFields(ctx, logging.Fields{logging.RemoteFieldKey: o.remote})
	report := &Report{}
	var err error

	logging.FromContext(ctx).Infof("Pushing to remote artifact-repo: Artifact data on branch %s", req.Branch)
	report.Branch, err = o.publishRef(ctx, "refs/heads/"+req.Branch, req.Commit, req.ForceBranch)
	if err != nil {
		return report, fmt.Errorf("push branch %s: %w", req.Branch, err)
	}
	logging.FromContext(ctx).Infof("Pushing to remote artifact-repo: Artifact meta-data %s", req.MetadataRef)
	report.Metadata, err = o.publishRef(ctx, req.MetadataRef, req.MetadataObject, req.ForceBranch)
	if err != nil {
		return report, fmt.Errorf("push metadata %s: %w", req.MetadataRef, err)
	}
	if !req.PushTag {
		return report, nil
	}
	report.Tag, err = ResolveTag(ctx, o.store, o.remote, TagRequest{
		Tag:             req.Tag,
		Commit:          req.Commit,
		LocalCommitTime: req.LocalCommitTime,
		Override:        req.ForceTag,
	})
	if err != nil {
		return report, err
	}
	return report, nil
}

// publishRef pushes ref. Without force, a remote already holding exactly value is left alone.
func (o *Orchestrator) publishRef(ctx context.Context, ref, value string, force bool) (RefReport, error) {
	report := RefReport{Ref: ref}
	if force {
		if err := o.store.Push(ctx, o.remote, ref, true); err != nil {
			return report, err
		}
		report.Action = ActionForced
		return report, nil
	}
	current, err := o.store.RemoteRefValue(ctx, o.remote, ref)
	if err != nil {
		return report, err
	}
	if current != "" && current == value {
		logging.FromContext(ctx).WithField(logging.RefFieldKey, ref).
			Warnf("Remote artifact-repo already has %s -- and we won't force push.", ref)
		report.Action = ActionSkipped
		return report, nil
	}
	if err := o.store.Push(ctx, o.remote, ref, false); err != nil {
		return report, err
	}
	report.Action = ActionPushed
	return report, nil
}

// ExpiredBranch is a remote artifact branch whose expiry has passed
type ExpiredBranch struct {
	Ref         string
	Commit      string
	Parsed      *naming.ParsedBranch
	MetadataRef string
	Deleted     bool
}

// PruneRequest selects expired artifact branches
type PruneRequest struct {
	Now time.Time
	// Match is an optional glob over "<repo>/<relpath>", e.g. "firmware.git/out/*"
	Match string
	// Remove deletes what was selected
	Remove bool
}

// PruneExpired lists remote artifact branches that expired before req.Now, oldest first. With
// Remove set each one is deleted along with the metadata ref of its head commit. Deletion is
// not atomic and stops at the first failure.
func (o *Orchestrator) PruneExpired(ctx context.Context, req PruneRequest) ([]*ExpiredBranch, error) {
	if o.remote == "" {
		return nil, ErrNoRemote
	}
	var match glob.Glob
	if req.Match != "" {
		var err error
		if match, err = glob.Compile(req.Match, '/'); err != nil {
			return nil, fmt.Errorf("%q: %w: %w", req.Match, ErrInvalidPattern, err)
		}
	}
	log := logging.FromContext(ctx).WithField(logging.RemoteFieldKey, o.remote)
	branches, err := o.store.ListRemoteRefs(ctx, o.remote, "refs/heads/"+naming.BranchPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list artifact branches: %w", err)
	}
	var metaRefs map[string]string
	if req.Remove {
		metaRefs, err = o.store.ListRemoteRefs(ctx, o.remote, naming.MetadataRefPrefix+"*")
		if err != nil {
			return nil, fmt.Errorf("list artifact metadata: %w", err)
		}
	}

	var expired []*ExpiredBranch
	for ref, commit := range branches {
		parsed, err := naming.ParseBranchName(ref)
		if err != nil {
			log.WithField(logging.BranchFieldKey, ref).Debug("Skipping unrecognized branch")
			continue
		}
		if !parsed.Expiry.Time.Before(req.Now) {
			continue
		}
		if match != nil && !match.Match(parsed.Repo+"/"+parsed.RelPath) {
			continue
		}
		expired = append(expired, &ExpiredBranch{
			Ref:         ref,
			Commit:      commit,
			Parsed:      parsed,
			MetadataRef: naming.MetadataRef(commit),
		})
	}
	sort.Slice(expired, func(i, j int) bool {
		ti, tj := expired[i].Parsed.Expiry.Time, expired[j].Parsed.Expiry.Time
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return expired[i].Ref < expired[j].Ref
	})
	if !req.Remove {
		return expired, nil
	}

	for _, branch := range expired {
		log.WithField(logging.BranchFieldKey, branch.Ref).Infof("Deleting expired artifact %s", branch.Ref)
		if err := o.store.DeleteRemoteRef(ctx, o.remote, branch.Ref); err != nil {
			return expired, fmt.Errorf("delete %s: %w", branch.Ref, err)
		}
		if _, ok := metaRefs[branch.MetadataRef]; ok {
			if err := o.store.DeleteRemoteRef(ctx, o.remote, branch.MetadataRef); err != nil {
				return expired, fmt.Errorf("delete %s: %w", branch.MetadataRef, err)
			}
		}
		branch.Deleted = true
	}
	return expired, nil
}
