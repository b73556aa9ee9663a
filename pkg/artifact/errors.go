package artifact

import (
	"fmt"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

var ErrDetachedTag = fmt.Errorf("%w: source is a detached HEAD, there is no branch to name a tag after", rberrors.ErrPolicyViolation)
