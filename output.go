package verscout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// String returns the plain version string projection of the result.
func (r Result) String() string {
	return r.Version
}

// JSON returns the flat key-value projection of the result.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

var versionFileTemplate = template.Must(template.New("versionfile").Parse(
	`// Code generated by verscout. DO NOT EDIT.

package {{ .Package }}

// Version information resolved from Git metadata at generation time.
const (
	Version        = {{ printf "%q" .Result.Version }}
	FullRevisionID = {{ printf "%q" .Result.FullRevisionID }}
	Dirty          = {{ .Result.Dirty }}
	ResolveError   = {{ printf "%q" .Result.Error }}
	Date           = {{ printf "%q" .Result.Date }}
)
`))

// GoSource renders the result as a Go source file declaring the same
// record as package-level constants, for embedding into a build artifact.
func (r Result) GoSource(pkg string) ([]byte, error) {
	if pkg == "" {
		pkg = "version"
	}

	var buf bytes.Buffer
	err := versionFileTemplate.Execute(&buf, struct {
		Package string
		Result  Result
	}{Package: pkg, Result: r})
	if err != nil {
		return nil, fmt.Errorf("rendering versionfile: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteVersionFile writes the generated source for r to path, creating
// parent directories as needed.
func WriteVersionFile(path, pkg string, r Result) error {
	src, err := r.GoSource(pkg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
