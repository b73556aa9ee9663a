package naming

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/treeverse/git-recycle-bin/pkg/fileutil"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
)

const (
	BranchPrefix      = "artifact/expire/"
	TagPrefix         = "artifact/latest/"
	MetadataRefPrefix = "refs/artifact/meta-for-commit/"

	// DetachedHEAD is the branch name git reports when no branch is checked out
	DetachedHEAD = "HEAD"
)

// Identity is what makes two artifacts "the same artifact"
type Identity struct {
	Name         string
	SourceRepo   string
	SourceSHA    string
	SourceBranch string
	RelPath      string
}

// Input holds everything the naming engine needs to name an artifact
type Input struct {
	ArtifactName   string
	ArtifactPath   string
	SourceRepo     string
	SourceSHA      string
	SourceBranch   string
	SourceTreeRoot string
	Expiry         Expiry
}

// Names are the derived, deterministic names of an artifact
type Names struct {
	Identity Identity
	// NCADir is the nearest common ancestor of the artifact path and the source tree root
	NCADir string
	// RelPathNCA is the artifact path relative to NCADir
	RelPathNCA string
	// RelPathSource is the artifact path relative to the source tree root
	RelPathSource string
	Expiry        Expiry
	Branch        string
	// Tag is empty when the source is a detached HEAD
	Tag string
}

// BranchName is artifact/expire/<expiry>/<repo>@<sha>/{<relpath>}
func BranchName(id Identity, expiry Expiry) string {
	return fmt.Sprintf("%s%s/%s@%s/{%s}", BranchPrefix, expiry.Formatted, id.SourceRepo, id.SourceSHA, id.RelPath)
}

// TagName is artifact/latest/<repo>@<branch>/{<relpath>}. There is no tag for a detached HEAD.
func TagName(id Identity) (string, bool) {
	if id.SourceBranch == DetachedHEAD {
		return "", false
	}
	return fmt.Sprintf("%s%s@%s/{%s}", TagPrefix, id.SourceRepo, id.SourceBranch, id.RelPath), true
}

// MetadataRef is the ref holding the metadata blob of artifact commit sha
func MetadataRef(sha string) string {
	return MetadataRefPrefix + sha
}

// Resolve derives all names of an artifact. The artifact path must exist.
func Resolve(ctx context.Context, in Input) (*Names, error) {
	artifactPath, err := filepath.Abs(in.ArtifactPath)
	if err != nil {
		return nil, err
	}
	if exists, err := fileutil.Exists(artifactPath); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("%s: %w", in.ArtifactPath, ErrArtifactNotFound)
	}
	treeRoot, err := filepath.Abs(in.SourceTreeRoot)
	if err != nil {
		return nil, err
	}
	nca, err := fileutil.NCA(artifactPath, treeRoot)
	if err != nil {
		return nil, err
	}
	relNCA, err := fileutil.RelDir(nca, artifactPath)
	if err != nil {
		return nil, err
	}
	relSource, err := fileutil.RelDir(treeRoot, artifactPath)
	if err != nil {
		return nil, err
	}

	id := Identity{
		Name:         SanitizeLogged(ctx, "artifact name", in.ArtifactName),
		SourceRepo:   SanitizeLogged(ctx, "source repository", in.SourceRepo),
		SourceSHA:    in.SourceSHA,
		SourceBranch: in.SourceBranch,
		RelPath:      SanitizeLogged(ctx, "artifact path", relNCA),
	}
	if id.SourceBranch != DetachedHEAD {
		id.SourceBranch = SanitizeLogged(ctx, "source branch", in.SourceBranch)
	}
	names := &Names{
		Identity:      id,
		NCADir:        nca,
		RelPathNCA:    relNCA,
		RelPathSource: relSource,
		Expiry:        in.Expiry,
		Branch:        BranchName(id, in.Expiry),
	}
	names.Tag, _ = TagName(id)

	logging.FromContext(ctx).WithFields(logging.Fields{
		logging.BranchFieldKey: names.Branch,
		logging.TagFieldKey:    names.Tag,
		logging.PathFieldKey:   names.RelPathNCA,
	}).Debug("Resolved artifact names")
	return names, nil
}

// ParsedBranch is an artifact branch name split into its parts
type ParsedBranch struct {
	Expiry  Expiry
	Repo    string
	SHA     string
	RelPath string
}

// ParseBranchName splits a name produced by BranchName. A leading "refs/heads/" is accepted.
func ParseBranchName(name string) (*ParsedBranch, error) {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(name, "refs/heads/"), BranchPrefix)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotArtifactBranch)
	}
	// expiry spans two path segments: date/time+zone
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotArtifactBranch)
	}
	formatted := parts[0] + "/" + parts[1]
	t, err := ParseExpiry(formatted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotArtifactBranch)
	}
	repoAtSHA, path, ok := strings.Cut(parts[2], "/")
	if !ok || !strings.HasPrefix(path, "{") || !strings.HasSuffix(path, "}") {
		return nil, fmt.Errorf("%s: %w", name, ErrNotArtifactBranch)
	}
	idx := strings.LastIndex(repoAtSHA, "@")
	if idx <= 0 || idx == len(repoAtSHA)-1 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotArtifactBranch)
	}
	return &ParsedBranch{
		Expiry:  Expiry{Time: t, Formatted: formatted},
		Repo:    repoAtSHA[:idx],
		SHA:     repoAtSHA[idx+1:],
		RelPath: path[1 : len(path)-1],
	}, nil
}
