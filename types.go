// Package verscout derives a project version string from Git metadata:
// the nearest matching tag, the commit distance from it, and the dirty
// state of the working tree.
package verscout

import (
	"fmt"
	"time"
)

// Style selects the output format of the rendered version string.
type Style string

const (
	StylePep440          Style = "pep440"
	StylePep440Pre       Style = "pep440-pre"
	StylePep440Post      Style = "pep440-post"
	StylePep440Branch    Style = "pep440-branch"
	StyleGitDescribe     Style = "git-describe"
	StyleGitDescribeLong Style = "git-describe-long"
	StyleDigits          Style = "digits"
)

// ParseStyle validates a style name from configuration or flags.
// An empty name selects the default pep440 style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StylePep440, StylePep440Pre, StylePep440Post, StylePep440Branch,
		StyleGitDescribe, StyleGitDescribeLong, StyleDigits:
		return Style(s), nil
	case "":
		return StylePep440, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// Error classifications carried in Result.Error. The resolver never fails
// with a Go error for these; callers decide whether they abort anything.
const (
	ErrVcsUnavailable     = "VcsUnavailable"
	ErrVcsCommandFailed   = "VcsCommandFailed"
	ErrNoTagsFound        = "NoTagsFound"
	ErrNoParentDirMatch   = "NoParentDirMatch"
	ErrTagPrefixMismatch  = "TagPrefixMismatch"
	ErrDescribeUnparsable = "DescribeUnparsable"
	ErrUnknownStyle       = "UnknownStyle"
)

// SentinelVersion is the version reported whenever Result.Error is set.
const SentinelVersion = "0+unknown"

// Config controls a single resolution. The zero value resolves with the
// pep440 style and the "v" tag prefix.
type Config struct {
	// Style selects the output format (default: pep440)
	Style Style

	// TagPrefix is the prefix real version tags carry (default: "v").
	// Tags without it are not version candidates.
	TagPrefix string

	// ParentDirPrefix enables the parent-directory fallback when no
	// repository is found. When empty it is derived from the nearest
	// go.mod module path, if any.
	ParentDirPrefix string

	// Timeout bounds the git subprocess used by the dirty check
	// (default: 5s). Expiry classifies as VcsCommandFailed.
	Timeout time.Duration

	// Verbose enables diagnostic logging. It never affects the result.
	Verbose bool
}

func (c Config) withDefaults() Config {
	if c.Style == "" {
		c.Style = StylePep440
	}
	if c.TagPrefix == "" {
		c.TagPrefix = "v"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

// Result is the outcome of one resolution. When Error is non-empty,
// Version holds SentinelVersion so callers always get a usable string.
type Result struct {
	Version        string `json:"version"`
	FullRevisionID string `json:"full_revisionid,omitempty"`
	Dirty          bool   `json:"dirty"`
	Error          string `json:"error,omitempty"`
	Date           string `json:"date,omitempty"`
}

// Resolver is the capability callers can swap for a custom implementation.
// Resolve is the default.
type Resolver func(cfg Config, dir string) Result

// Pieces is the decomposition of a describe query: the nearest matching
// tag (prefix stripped), the commit distance from it, and working tree
// state. ClosestTag is empty when no matching tag exists anywhere, in
// which case Distance is the total commit count.
type Pieces struct {
	ClosestTag string
	Distance   int
	Short      string
	Long       string
	Branch     string
	Dirty      bool
	Date       string
}

// classifiedError carries one of the Err* classifications through the
// internal error paths so Resolve can map it into Result.Error.
type classifiedError struct {
	kind string
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }

func classify(kind, format string, args ...interface{}) error {
	return &classifiedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
