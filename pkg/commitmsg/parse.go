package commitmsg

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

var (
	ErrMissingTrailer = fmt.Errorf("%w: missing trailer", rberrors.ErrInvalidInput)
	ErrInvalidTrailer = fmt.Errorf("%w: invalid trailer", rberrors.ErrInvalidInput)
)

var trailerRegexp = regexp.MustCompile(`^([\w-]+):(.*)`)

// Trailers are the single-line key: value pairs of a commit message. Parsing is lossy:
// a key that appears on several lines (src-git-status) keeps only its last value, so
// Trailers never reconstructs a ProvenanceRecord.
type Trailers struct {
	values map[string]string
}

// Parse extracts every "key: value" line of message
func Parse(message string) Trailers {
	t := Trailers{values: map[string]string{}}
	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		m := trailerRegexp.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		t.values[key] = strings.TrimSpace(m[2])
	}
	return t
}

func (t Trailers) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

func (t Trailers) date(key string) (time.Time, error) {
	v, ok := t.values[key]
	if !ok {
		return time.Time{}, fmt.Errorf("%s: %w", key, ErrMissingTrailer)
	}
	d, err := ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q: %w", key, v, ErrInvalidTrailer)
	}
	return d, nil
}

// CommitterTime is the source commit's committer time
func (t Trailers) CommitterTime() (time.Time, error) {
	return t.date(KeyCommitterTime)
}
