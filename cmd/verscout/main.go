package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/verscout/verscout"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Resolve ResolveCmd `cmd:"" default:"withargs" help:"Resolve the project version from Git metadata"`
	Write   WriteCmd   `cmd:"" help:"Resolve the version and write the configured versionfile"`

	Version kong.VersionFlag `help:"Show version information"`
}

type ResolveCmd struct {
	Dir             string `arg:"" optional:"" help:"Directory to resolve (default: current directory)"`
	Style           string `short:"s" help:"Output style (pep440, pep440-pre, pep440-post, pep440-branch, git-describe, git-describe-long, digits)"`
	TagPrefix       string `help:"Prefix carried by version tags (default: v)"`
	ParentdirPrefix string `help:"Directory-name prefix for the no-repository fallback"`
	Format          string `short:"f" default:"version" enum:"version,json,go" help:"Output format"`
	Package         string `help:"Package name for --format=go" default:"version"`
	Strict          bool   `help:"Exit non-zero when resolution reports an error"`
	Verbose         bool   `short:"v" help:"Enable diagnostic logging"`
}

type WriteCmd struct {
	Dir     string `arg:"" optional:"" help:"Project directory (default: current directory)"`
	Verbose bool   `short:"v" help:"Enable diagnostic logging"`
}

func main() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("verscout"),
		kong.Description("Derive a project version from Git tags, commit distance and dirty state"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *ResolveCmd) Run() error {
	dir, cfg, _, err := loadConfig(c.Dir, c.Verbose)
	if err != nil {
		return err
	}

	if c.Style != "" {
		style, err := verscout.ParseStyle(c.Style)
		if err != nil {
			return err
		}
		cfg.Style = style
	}
	if c.TagPrefix != "" {
		cfg.TagPrefix = c.TagPrefix
	}
	if c.ParentdirPrefix != "" {
		cfg.ParentDirPrefix = c.ParentdirPrefix
	}

	result := verscout.Resolve(cfg, dir)

	if err := printResult(result, c.Format, c.Package); err != nil {
		return err
	}

	// Whether a classified error aborts anything is the caller's policy,
	// not the resolver's.
	if c.Strict && result.Error != "" {
		return fmt.Errorf("version resolution failed: %s", result.Error)
	}
	return nil
}

func (c *WriteCmd) Run() error {
	dir, cfg, project, err := loadConfig(c.Dir, c.Verbose)
	if err != nil {
		return err
	}

	if project.VersionFile == "" {
		return fmt.Errorf("no versionfile configured in %s", verscout.ConfigFileName)
	}

	result := verscout.Resolve(cfg, dir)
	if result.Error != "" {
		return fmt.Errorf("version resolution failed: %s", result.Error)
	}

	path := filepath.Join(project.Root, project.VersionFile)
	if err := verscout.WriteVersionFile(path, project.VersionFilePackage, result); err != nil {
		return err
	}

	log.Info("Wrote versionfile", "path", path, "version", result.Version)
	return nil
}

func loadConfig(dir string, verbose bool) (string, verscout.Config, *verscout.ProjectConfig, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", verscout.Config{}, nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	project, err := verscout.LoadProjectConfig(dir)
	if err != nil {
		return "", verscout.Config{}, nil, err
	}

	cfg := project.Config
	if verbose {
		cfg.Verbose = true
	}
	return dir, cfg, project, nil
}

func printResult(result verscout.Result, format, pkg string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(result)
	case "go":
		src, err := result.GoSource(pkg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(src)
		return err
	default:
		fmt.Println(result.String())
		return nil
	}
}
