package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/treeverse/git-recycle-bin/pkg/fileutil"
	"github.com/treeverse/git-recycle-bin/pkg/git"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
)

// ScratchDirName is the git dir of the local artifact repository, kept inside the NCA dir
const ScratchDirName = ".rbgit"

func ScratchDir(ncaDir string) string {
	return filepath.Join(ncaDir, ScratchDirName)
}

// OpenScratch returns the artifact repository whose work tree is ncaDir. It is not initialized.
func OpenScratch(ncaDir string) *git.Repository {
	return git.NewBinRepository(ScratchDir(ncaDir), ncaDir)
}

// RemoveScratch deletes the artifact repository git dir. Reports whether anything was removed.
func RemoveScratch(ctx context.Context, ncaDir string) (bool, error) {
	dir := ScratchDir(ncaDir)
	isDir, err := fileutil.IsDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !isDir {
		return false, nil
	}
	logging.FromContext(ctx).WithField(logging.PathFieldKey, dir).Info("Deleting local artifact repository")
	if err := os.RemoveAll(dir); err != nil {
		return false, err
	}
	return true, nil
}
