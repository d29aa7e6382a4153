package verscout

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

var masterBranches = []string{"master", "main"}

// OpenRepository opens the Git repository containing path, walking upward
// until repository metadata is found.
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// gitPieces runs the describe-equivalent query against an open repository:
// nearest ancestor tag carrying cfg.TagPrefix, commit distance, dirty state,
// HEAD revision and committer date.
func gitPieces(repo *git.Repository, cfg Config) (*Pieces, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, classify(ErrVcsCommandFailed, "resolving HEAD: %v", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, classify(ErrVcsCommandFailed, "getting HEAD commit: %v", err)
	}

	index, err := tagsByCommit(repo, cfg.TagPrefix)
	if err != nil {
		return nil, classify(ErrVcsCommandFailed, "listing tags: %v", err)
	}

	pieces := &Pieces{
		Long:   head.Hash().String(),
		Short:  head.Hash().String()[:7],
		Branch: branchAt(repo, head),
		Date:   commit.Committer.When.Format("2006-01-02T15:04:05-0700"),
	}

	// Walk ancestors from HEAD. The first tagged commit encountered is the
	// closest tag; the number of commits passed before it is the distance.
	// If the walk exhausts without a hit, distance ends up as the total
	// commit count, which is exactly what the untagged fallback needs.
	distance := 0
	var fullTag string
	walker := object.NewCommitPreorderIter(commit, nil, nil)
	err = walker.ForEach(func(c *object.Commit) error {
		if names, ok := index[c.Hash]; ok {
			fullTag = bestTag(names, cfg.TagPrefix)
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil {
		return nil, classify(ErrVcsCommandFailed, "walking commits: %v", err)
	}

	pieces.Distance = distance
	if fullTag != "" {
		if !strings.HasPrefix(fullTag, cfg.TagPrefix) {
			return nil, classify(ErrTagPrefixMismatch,
				"tag %q doesn't start with prefix %q", fullTag, cfg.TagPrefix)
		}
		pieces.ClosestTag = strings.TrimPrefix(fullTag, cfg.TagPrefix)
	}

	dirty, err := workTreeIsDirty(repo, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	pieces.Dirty = dirty

	return pieces, nil
}

// tagsByCommit maps commit hashes to the tag names pointing at them,
// considering only tags that carry the configured prefix. Annotated tags
// are resolved to their target commit.
func tagsByCommit(repo *git.Repository, prefix string) (map[plumbing.Hash][]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	index := make(map[plumbing.Hash][]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}

		obj, err := repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			// Annotated tag
			index[obj.Target] = append(index[obj.Target], name)
		case errors.Is(err, plumbing.ErrObjectNotFound):
			// Lightweight tag
			index[ref.Hash()] = append(index[ref.Hash()], name)
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return index, nil
}

// bestTag picks one tag when several point at the same commit: the highest
// parseable version wins, then lexicographic order.
func bestTag(names []string, prefix string) string {
	if len(names) == 1 {
		return names[0]
	}

	sort.Strings(names)
	best := names[0]
	bestVer, bestOK := parseTagVersion(best, prefix)
	for _, name := range names[1:] {
		ver, ok := parseTagVersion(name, prefix)
		switch {
		case ok && !bestOK:
			best, bestVer, bestOK = name, ver, true
		case ok && bestOK && ver.GT(bestVer):
			best, bestVer = name, ver
		case !ok && !bestOK && name > best:
			best = name
		}
	}
	return best
}

func parseTagVersion(name, prefix string) (semver.Version, bool) {
	ver, err := semver.ParseTolerant(strings.TrimPrefix(name, prefix))
	return ver, err == nil
}

// branchAt reports the branch HEAD is on. For a detached HEAD it picks a
// branch pointing at the same commit, preferring master/main, so the
// branch-aware styles stay deterministic.
func branchAt(repo *git.Repository, head *plumbing.Reference) string {
	if head.Name().IsBranch() {
		return head.Name().Short()
	}

	branches, err := repo.Branches()
	if err != nil {
		return ""
	}

	var names []string
	_ = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Hash() == head.Hash() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if len(names) == 0 {
		return ""
	}

	sort.Strings(names)
	for _, master := range masterBranches {
		for _, name := range names {
			if name == master {
				return name
			}
		}
	}
	return names[0]
}

func isMasterBranch(name string) bool {
	for _, master := range masterBranches {
		if name == master {
			return true
		}
	}
	return false
}

func workTreeIsDirty(repo *git.Repository, timeout time.Duration) (bool, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return false, nil
		}
		return false, classify(ErrVcsCommandFailed, "getting worktree: %v", err)
	}

	// Fast path for filesystem storage
	if _, ok := repo.Storer.(*filesystem.Storage); ok {
		return checkDirtyWithGitCommand(workTree.Filesystem.Root(), timeout)
	}

	// Fallback to go-git status check
	status, err := workTree.Status()
	if err != nil {
		return false, classify(ErrVcsCommandFailed, "getting git status: %v", err)
	}

	return !status.IsClean(), nil
}

func checkDirtyWithGitCommand(repoPath string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Refresh index first
	cmd := exec.CommandContext(ctx, "git", "update-index", "-q", "--refresh")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, classify(ErrVcsCommandFailed, "git dirty check timed out after %s", timeout)
		}
		// If update-index fails, assume dirty
		return true, nil
	}

	// Check for changes
	cmd = exec.CommandContext(ctx, "git", "diff-files", "--name-status", "--ignore-space-at-eol")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, classify(ErrVcsCommandFailed, "git dirty check timed out after %s", timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, nil
		}
		return false, fmt.Errorf("running git diff-files: %w", err)
	}

	return len(output) > 0, nil
}
