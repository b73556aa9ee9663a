package publish

import (
	"fmt"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

var (
	ErrRemoteMetadata = fmt.Errorf("%w: remote artifact metadata", rberrors.ErrInvalidInput)
	ErrNoRemote       = fmt.Errorf("%w: no remote configured", rberrors.ErrPolicyViolation)
	ErrNoTag          = fmt.Errorf("%w: no tag to publish", rberrors.ErrPolicyViolation)
	ErrInvalidPattern = fmt.Errorf("%w: invalid match pattern", rberrors.ErrInvalidInput)
)
