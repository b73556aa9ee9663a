package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/treeverse/git-recycle-bin/pkg/commitmsg"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/naming"
)

const DefaultSourceRemote = "origin"

// Source describes the checked out state of the source repository
type Source struct {
	TreeRoot string
	GitDir   string
	RepoName string
	RepoURL  string

	SHA           string
	ShortSHA      string
	Title         string
	Message       string
	ChangeID      *string
	AuthorTime    time.Time
	CommitterTime time.Time

	// Branch is naming.DetachedHEAD when no branch is checked out
	Branch   string
	Upstream string
	Ahead    *int
	Behind   *int
	Status   string
}

func (s *Source) Detached() bool {
	return s.Branch == naming.DetachedHEAD
}

// RequireBranch fails with ErrDetachedTag when a latest tag is requested from a detached HEAD
func (s *Source) RequireBranch() error {
	if s.Detached() {
		return ErrDetachedTag
	}
	return nil
}

// repoNameFromURL is the last path element of url, scp-like urls included. A ".git" suffix is kept.
func repoNameFromURL(url string) string {
	url = strings.TrimRight(url, "/")
	if idx := strings.LastIndexAny(url, "/:"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}

// Inspect reads provenance of HEAD in the repository containing dir. remote names the source
// remote whose url identifies the repository; without one the tree root stands in for it.
func Inspect(ctx context.Context, dir, remote string) (*Source, error) {
	treeRoot, err := git.GetRepositoryPath(ctx, dir)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)
	repo := git.NewRepository(treeRoot)
	src := &Source{TreeRoot: treeRoot}

	if src.GitDir, err = repo.AbsoluteGitDir(ctx); err != nil {
		return nil, err
	}
	if src.SHA, err = repo.Head(ctx); err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	if src.ShortSHA, err = repo.ShortSHA(ctx, src.SHA); err != nil {
		return nil, err
	}
	if src.Message, err = repo.ShowMessage(ctx, src.SHA); err != nil {
		return nil, err
	}
	src.Title, _, _ = strings.Cut(src.Message, "\n")
	src.ChangeID = commitmsg.ExtractChangeID(src.Message)
	if src.AuthorTime, src.CommitterTime, err = repo.CommitDates(ctx, src.SHA); err != nil {
		return nil, err
	}
	if src.Branch, err = repo.AbbrevRef(ctx); err != nil {
		return nil, err
	}
	if src.Status, err = repo.StatusPorcelain(ctx); err != nil {
		return nil, err
	}

	if remote == "" {
		remote = DefaultSourceRemote
	}
	if src.RepoURL, err = repo.RemoteURL(ctx, remote); err != nil {
		return nil, err
	}
	if src.RepoURL == "" {
		log.WithField(logging.RemoteFieldKey, remote).Debug("Source remote has no url, using the tree root")
		src.RepoURL = treeRoot
		src.RepoName = filepath.Base(treeRoot)
	} else {
		src.RepoName = repoNameFromURL(src.RepoURL)
	}

	if !src.Detached() {
		if err := src.countUpstream(ctx, repo); err != nil {
			return nil, err
		}
	}
	log.WithFields(logging.Fields{
		logging.CommitFieldKey: src.SHA,
		logging.BranchFieldKey: src.Branch,
		"repo":                 src.RepoName,
	}).Debug("Inspected source")
	return src, nil
}

func (s *Source) countUpstream(ctx context.Context, repo *git.Repository) error {
	upstream, err := repo.Upstream(ctx, s.Branch)
	if err != nil {
		return err
	}
	if upstream == "" {
		return nil
	}
	s.Upstream = upstream
	ahead, err := repo.CountCommits(ctx, upstream+".."+s.Branch)
	if err != nil {
		return err
	}
	behind, err := repo.CountCommits(ctx, s.Branch+".."+upstream)
	if err != nil {
		return err
	}
	s.Ahead, s.Behind = &ahead, &behind
	return nil
}

// ResolveNames names the artifact at path built from src
func ResolveNames(ctx context.Context, src *Source, name, path string, expiry naming.Expiry) (*naming.Names, error) {
	return naming.Resolve(ctx, naming.Input{
		ArtifactName:   name,
		ArtifactPath:   path,
		SourceRepo:     src.RepoName,
		SourceSHA:      src.SHA,
		SourceBranch:   src.Branch,
		SourceTreeRoot: src.TreeRoot,
		Expiry:         expiry,
	})
}
