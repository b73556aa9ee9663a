package git

import (
	"errors"
	"fmt"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrNoGit          = fmt.Errorf("no git support: %w", rberrors.ErrPrimitiveFailure)
	ErrGitError       = fmt.Errorf("git command failed: %w", rberrors.ErrPrimitiveFailure)
	ErrRefNotFound    = errors.New("ref not found")
)
