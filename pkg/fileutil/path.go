package fileutil

import (
	"os"
	"path/filepath"
	"strings"

	gomime "github.com/cubewise-code/go-mime"
)

const (
	KindDirectory = "directory"
	KindLink      = "link"
	KindUnknown   = "unknown"

	DefaultMimeType = "application/octet-stream"
)

// NCA returns the nearest common ancestor of two paths: the longest shared sequence of
// leading path components of both absolute paths
func NCA(pathA, pathB string) (string, error) {
	absA, err := filepath.Abs(pathA)
	if err != nil {
		return "", err
	}
	absB, err := filepath.Abs(pathB)
	if err != nil {
		return "", err
	}
	componentsA := strings.Split(absA, string(os.PathSeparator))
	componentsB := strings.Split(absB, string(os.PathSeparator))

	var common []string
	for i := 0; i < len(componentsA) && i < len(componentsB); i++ {
		if componentsA[i] != componentsB[i] {
			break
		}
		common = append(common, componentsA[i])
	}
	ancestor := strings.Join(common, string(os.PathSeparator))
	if ancestor == "" || ancestor == filepath.VolumeName(absA) {
		// only the root is shared
		return ancestor + string(os.PathSeparator), nil
	}
	return ancestor, nil
}

// RelDir returns the relative path to pathTo from pathFrom
func RelDir(pathFrom, pathTo string) (string, error) {
	absFrom, err := filepath.Abs(pathFrom)
	if err != nil {
		return "", err
	}
	absTo, err := filepath.Abs(pathTo)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absFrom, absTo)
}

// ClassifyPath returns the mime type of a regular file (by extension), or one of KindDirectory,
// KindLink (a symlink whose target is missing) and KindUnknown
func ClassifyPath(p string) string {
	if info, err := os.Stat(p); err == nil {
		switch {
		case info.Mode().IsRegular():
			if mimeType := gomime.TypeByExtension(filepath.Ext(p)); mimeType != "" {
				return mimeType
			}
			return DefaultMimeType
		case info.IsDir():
			return KindDirectory
		}
		return KindUnknown
	}
	if info, err := os.Lstat(p); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return KindLink
	}
	return KindUnknown
}
