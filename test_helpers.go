package verscout

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoFSCreate creates a new on-disk git repository for testing
func testRepoFSCreate(path string) (*git.Repository, error) {
	return git.PlainInit(path, false)
}

// testRepoCommit writes a file and commits it, returning the commit hash
func testRepoCommit(repo *git.Repository, filename, content, message string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := writeFile(workTree.Filesystem, filename, content); err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := workTree.Add(filename); err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit(message, &git.CommitOptions{Author: testSignature})
}

// testRepoWithTag creates a repo with one tagged commit followed by
// commitsAfter additional commits
func testRepoWithTag(tag string, commitsAfter int) (*git.Repository, error) {
	repo, err := testRepoCreate()
	if err != nil {
		return nil, err
	}

	hash, err := testRepoCommit(repo, "initial.txt", "Initial content", "Release commit")
	if err != nil {
		return nil, err
	}

	if _, err := repo.CreateTag(tag, hash, nil); err != nil {
		return nil, err
	}

	for i := 0; i < commitsAfter; i++ {
		filename := "file_" + string(rune('a'+i)) + ".txt"
		if _, err := testRepoCommit(repo, filename, "post-release", "Post-release commit"); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// testRepoDirty modifies a tracked file without committing it
func testRepoDirty(repo *git.Repository) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}
	return writeFile(workTree.Filesystem, "initial.txt", "Modified content")
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
