package naming

import (
	"errors"
	"fmt"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

var (
	ErrInvalidExpiry     = fmt.Errorf("%w: invalid expiry expression", rberrors.ErrInvalidInput)
	ErrExpiryNotInFuture = fmt.Errorf("%w: relative expiry is not in the future", ErrInvalidExpiry)
	ErrArtifactNotFound  = fmt.Errorf("%w: artifact does not exist", rberrors.ErrInvalidInput)
	ErrNotArtifactBranch = errors.New("not an artifact branch name")
)
