package verscout

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blang/semver"
	"github.com/charmbracelet/log"
)

// Source archives conventionally unpack into name-version directories, so
// the fallback inspects the resolution directory and a few ancestors.
const parentDirLevels = 3

// resolveParentDir extracts a version from an enclosing directory name
// when no repository metadata exists. The prefix comes from the config,
// or is derived from the nearest go.mod module path.
func resolveParentDir(cfg Config, dir string, logger *log.Logger) Result {
	prefix := cfg.ParentDirPrefix
	if prefix == "" {
		prefix = deriveParentDirPrefix(dir)
		if prefix == "" {
			logger.Debug("no parent-directory prefix configured or derivable", "dir", dir)
			return errorResult(ErrNoParentDirMatch)
		}
		logger.Debug("derived parent-directory prefix", "prefix", prefix)
	}

	current, err := filepath.Abs(dir)
	if err != nil {
		return errorResult(ErrNoParentDirMatch)
	}

	for i := 0; i < parentDirLevels; i++ {
		name := filepath.Base(current)
		if strings.HasPrefix(name, prefix) {
			candidate := name[len(prefix):]
			if looksLikeVersion(candidate) {
				return Result{Version: candidate, Dirty: false}
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	logger.Debug("no enclosing directory matched the prefix", "prefix", prefix, "dir", dir)
	return errorResult(ErrNoParentDirMatch)
}

// looksLikeVersion guards against parsing an arbitrary directory suffix
// as a version; "myprog-python" must not yield version "python".
func looksLikeVersion(candidate string) bool {
	if candidate == "" || candidate[0] < '0' || candidate[0] > '9' {
		return false
	}
	_, err := semver.ParseTolerant(candidate)
	return err == nil
}

// deriveParentDirPrefix guesses the prefix from the module path in the
// nearest go.mod: module example.com/group/myproj gives "myproj-".
func deriveParentDirPrefix(dir string) string {
	module := moduleName(dir)
	if module == "" {
		return ""
	}
	return path.Base(module) + "-"
}

func moduleName(dir string) string {
	current, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			scanner := bufio.NewScanner(strings.NewReader(string(data)))
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if strings.HasPrefix(line, "module ") {
					return strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`)
				}
			}
			return ""
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
