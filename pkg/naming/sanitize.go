package naming

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/treeverse/git-recycle-bin/pkg/logging"
)

var (
	repeatedSlashes = regexp.MustCompile(`/{2,}`)
	repeatedDots    = regexp.MustCompile(`\.{2,}`)
)

func unsafeRune(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("~^:[]?*", r)
}

// Sanitize rewrites s into something git accepts as a ref name component. Whitespace and
// ~^:[]?* become _, a leading / or - becomes _, a trailing . becomes _, runs of / and of .
// collapse to one, and the names "@" and "@{" become "_". Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unsafeRune(r) {
			return '_'
		}
		return r
	}, s)

	if strings.HasPrefix(sanitized, "/") || strings.HasPrefix(sanitized, "-") {
		sanitized = "_" + sanitized[1:]
	}
	if strings.HasSuffix(sanitized, ".") {
		sanitized = sanitized[:len(sanitized)-1] + "_"
	}
	sanitized = repeatedSlashes.ReplaceAllString(sanitized, "/")
	sanitized = repeatedDots.ReplaceAllString(sanitized, ".")

	if sanitized == "@" || sanitized == "@{" {
		sanitized = "_"
	}
	return sanitized
}

// SanitizeLogged sanitizes value and warns when that changed it
func SanitizeLogged(ctx context.Context, field, value string) string {
	sanitized := Sanitize(value)
	if sanitized != value {
		logging.FromContext(ctx).
			WithFields(logging.Fields{"field": field, "original": value, "sanitized": sanitized}).
			Warnf("Sanitized '%s' to '%s'", value, sanitized)
	}
	return sanitized
}
