package verscout

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
)

// Resolve derives a version for the working directory dir. It never fails
// for ordinary failure modes (missing repository, no matching tag, broken
// metadata); those come back as a classification in Result.Error with the
// version pinned to SentinelVersion. It does not mutate the working tree.
func Resolve(cfg Config, dir string) Result {
	cfg = cfg.withDefaults()
	logger := newLogger(cfg.Verbose)

	if _, err := ParseStyle(string(cfg.Style)); err != nil {
		logger.Debug("invalid configuration", "error", err)
		return errorResult(ErrUnknownStyle)
	}

	repo, err := OpenRepository(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			logger.Debug("no repository metadata found", "dir", dir)
			return resolveParentDir(cfg, dir, logger)
		}
		logger.Debug("opening repository failed", "dir", dir, "error", err)
		return errorResult(ErrVcsUnavailable)
	}

	return ResolveRepository(cfg, repo)
}

// ResolveRepository resolves against an already-open repository. Useful
// for callers holding non-filesystem storage, and for tests.
func ResolveRepository(cfg Config, repo *git.Repository) Result {
	cfg = cfg.withDefaults()
	logger := newLogger(cfg.Verbose)

	pieces, err := gitPieces(repo, cfg)
	if err != nil {
		logger.Debug("describe query failed", "error", err)
		return errorResult(classificationOf(err))
	}

	if pieces.ClosestTag == "" {
		// Advisory only: the untagged baseline still renders a valid
		// version, so the result carries no error.
		logger.Debug("no tag matches the prefix anywhere in history",
			"classification", ErrNoTagsFound,
			"prefix", cfg.TagPrefix,
			"commits", pieces.Distance)
	}

	rendered, err := Render(cfg.Style, pieces)
	if err != nil {
		logger.Debug("rendering failed", "error", err)
		return errorResult(ErrUnknownStyle)
	}

	return Result{
		Version:        rendered,
		FullRevisionID: pieces.Long,
		Dirty:          pieces.Dirty,
		Date:           pieces.Date,
	}
}

func errorResult(classification string) Result {
	return Result{
		Version: SentinelVersion,
		Error:   classification,
	}
}

func classificationOf(err error) string {
	var cerr *classifiedError
	if errors.As(err, &cerr) {
		return cerr.kind
	}
	return ErrVcsCommandFailed
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard)
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(log.DebugLevel)
	return logger
}
