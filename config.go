package verscout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the project configuration file, looked up from the
// resolution directory upward.
const ConfigFileName = "verscout.toml"

type fileConfig struct {
	Project            string `toml:"project"`
	Style              string `toml:"style"`
	TagPrefix          string `toml:"tag-prefix"`
	ParentDirPrefix    string `toml:"parentdir-prefix"`
	VersionFile        string `toml:"versionfile"`
	VersionFilePackage string `toml:"versionfile-package"`
	Verbose            bool   `toml:"verbose"`
}

// ProjectConfig is the resolver configuration plus the project-level
// settings that only tooling cares about (where to write the versionfile).
type ProjectConfig struct {
	Config

	// Root is the directory containing verscout.toml, or the lookup
	// directory when no file was found.
	Root string

	// Project is the project name from the config file, also used as
	// "<project>-" for the parent-directory fallback when no explicit
	// prefix is set.
	Project string

	// VersionFile is the versionfile path relative to Root, empty when
	// not configured.
	VersionFile string

	// VersionFilePackage is the package name for the generated
	// versionfile (default: "version").
	VersionFilePackage string
}

// LoadProjectConfig walks upward from dir looking for verscout.toml. A
// missing file is not an error; defaults apply.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %q: %w", dir, err)
	}

	pc := &ProjectConfig{Root: root, VersionFilePackage: "version"}

	file := findConfigFile(root)
	if file == "" {
		return pc, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	style, err := ParseStyle(fc.Style)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	pc.Root = filepath.Dir(file)
	pc.Project = fc.Project
	pc.VersionFile = fc.VersionFile
	if fc.VersionFilePackage != "" {
		pc.VersionFilePackage = fc.VersionFilePackage
	}
	pc.Config = Config{
		Style:           style,
		TagPrefix:       fc.TagPrefix,
		ParentDirPrefix: fc.ParentDirPrefix,
		Verbose:         fc.Verbose,
	}
	if pc.ParentDirPrefix == "" && fc.Project != "" {
		pc.ParentDirPrefix = fc.Project + "-"
	}

	return pc, nil
}

func findConfigFile(dir string) string {
	current := dir
	for {
		candidate := filepath.Join(current, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
