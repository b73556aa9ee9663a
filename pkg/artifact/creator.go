package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/treeverse/git-recycle-bin/pkg/commitmsg"
	"github.com/treeverse/git-recycle-bin/pkg/fileutil"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
)

// DefaultIdentity authors every artifact commit. Keeping it fixed keeps commit ids reproducible
// across machines.
var DefaultIdentity = git.Identity{Name: "git-recycle-bin", Email: "git-recycle-bin@localhost"}

// Creator makes artifact commits in the local artifact repository
type Creator struct {
	bin      *git.Repository
	identity git.Identity
}

func NewCreator(bin *git.Repository, identity git.Identity) *Creator {
	if identity.Name == "" {
		identity.Name = DefaultIdentity.Name
	}
	if identity.Email == "" {
		identity.Email = DefaultIdentity.Email
	}
	return &Creator{bin: bin, identity: identity}
}

// Result of creating one artifact commit
type Result struct {
	Names    *naming.Names
	Record   *commitmsg.ProvenanceRecord
	Message  string
	Commit   string
	Tree     string
	Created  bool
	Metadata *Projection
}

// Record builds the provenance record of the artifact named by names out of src
func Record(src *Source, names *naming.Names) *commitmsg.ProvenanceRecord {
	return &commitmsg.ProvenanceRecord{
		SchemaVersion: commitmsg.SchemaVersion,
		Name:          names.Identity.Name,
		MimeType:      fileutil.ClassifyPath(filepath.Join(names.NCADir, names.RelPathNCA)),
		TreePrefix:    filepath.ToSlash(names.RelPathNCA),
		SrcRelPath:    filepath.ToSlash(names.RelPathSource),
		CommitTitle:   src.Title,
		CommitSHA:     src.SHA,
		ShortSHA:      src.ShortSHA,
		ChangeID:      src.ChangeID,
		AuthorTime:    src.AuthorTime,
		CommitterTime: src.CommitterTime,
		Branch:        src.Branch,
		RepoName:      src.RepoName,
		RepoURL:       src.RepoURL,
		Ahead:         src.Ahead,
		Behind:        src.Behind,
		Status:        src.Status,
	}
}

// Create commits the artifact onto its own branch. When the staged tree equals the branch's
// tree the existing head is reused and nothing is written. Commit dates are those of the
// source commit, so equal inputs give the same commit id. The metadata projection and the
// local latest tag are updated either way.
func (c *Creator) Create(ctx context.Context, src *Source, names *naming.Names) (*Result, error) {
	artifactPath := filepath.Join(names.NCADir, names.RelPathNCA)
	if exists, err := fileutil.Exists(artifactPath); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("%s: %w", artifactPath, naming.ErrArtifactNotFound)
	}
	ctx = logging.AddFields(ctx, logging.Fields{
		logging.ArtifactFieldKey: names.Identity.Name,
		logging.BranchFieldKey:   names.Branch,
	})
	log := logging.FromContext(ctx)

	if err := c.bin.InitIdempotent(ctx); err != nil {
		return nil, fmt.Errorf("init artifact repository: %w", err)
	}
	record := Record(src, names)
	message := commitmsg.Emit(record)

	if err := c.bin.CheckoutOrphanIdempotent(ctx, names.Branch); err != nil {
		return nil, fmt.Errorf("checkout %s: %w", names.Branch, err)
	}
	log.WithField(logging.PathFieldKey, names.RelPathNCA).Infof("Adding '%s' as '%s'", artifactPath, names.RelPathNCA)
	if err := c.bin.Stage(ctx, filepath.ToSlash(names.RelPathNCA)); err != nil {
		return nil, fmt.Errorf("stage %s: %w", names.RelPathNCA, err)
	}
	tree, err := c.bin.WriteTree(ctx)
	if err != nil {
		return nil, err
	}

	ref := "refs/heads/" + names.Branch
	parent, err := c.bin.ResolveRef(ctx, ref)
	switch {
	case errors.Is(err, git.ErrRefNotFound):
		parent = ""
	case err != nil:
		return nil, err
	}

	result := &Result{Names: names, Record: record, Tree: tree}
	if parent != "" {
		parentTree, err := c.bin.TreeOf(ctx, parent)
		if err != nil {
			return nil, err
		}
		if parentTree == tree {
			log.WithField(logging.CommitFieldKey, parent).Infof("No changes for the next commit. Already at %s", parent)
			result.Commit = parent
			// the reused commit's own message is what gets projected
			if result.Message, err = c.bin.ShowMessage(ctx, parent); err != nil {
				return nil, err
			}
		}
	}
	if result.Commit == "" {
		result.Commit, err = c.bin.CommitTree(ctx, tree, parent, message, git.CommitOptions{
			Timestamps: git.CommitTimestamps{Author: src.AuthorTime, Committer: src.CommitterTime},
			Author:     c.identity,
			Committer:  c.identity,
		})
		if err != nil {
			return nil, fmt.Errorf("commit artifact: %w", err)
		}
		old := parent
		if old == "" {
			old = git.ZeroSHA
		}
		if err := c.bin.UpdateRef(ctx, ref, result.Commit, old); err != nil {
			return nil, err
		}
		result.Message = message
		result.Created = true
		log.WithField(logging.CommitFieldKey, result.Commit).Info("Created artifact commit")
	}

	if result.Metadata, err = Project(ctx, c.bin, result.Commit, result.Message); err != nil {
		return nil, fmt.Errorf("project metadata: %w", err)
	}
	if names.Tag != "" {
		if err := c.bin.SetTag(ctx, names.Tag, result.Commit); err != nil {
			return nil, fmt.Errorf("tag %s: %w", names.Tag, err)
		}
	}
	log.Infof("Artifact branch: %s", names.Branch)
	log.Infof("Artifact commit: %s", result.Commit)
	log.Infof("Artifact [meta data]-only ref: %s", result.Metadata.Ref)
	log.Infof("Artifact [meta data]-only obj: %s", result.Metadata.Object)
	return result, nil
}
