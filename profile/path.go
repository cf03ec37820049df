package profile

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ResolveSourceDir returns the directory that mapper source files are read
// from: the override when supplied, else the profile's source path, else the
// working directory. "~" prefixes are expanded and the directory must exist.
func (p *Profile) ResolveSourceDir(pathOverride string) (string, error) {
	path := p.Source.Path
	if pathOverride != "" { // if the CLI supplied an override...
		path = pathOverride
	}
	if path == "" {
		path = "."
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", &PathResolutionError{Path: path, Reason: err.Error()}
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return "", &PathResolutionError{Path: expanded, Reason: err.Error()}
	}
	if !info.IsDir() {
		return "", &PathResolutionError{Path: expanded, Reason: "not a directory"}
	}
	return expanded, nil
}

// SourceFilePath joins the resolved source directory with the mapper's file name.
func (m *TableMapper) SourceFilePath(sourceDir string) string {
	return filepath.Join(sourceDir, m.File)
}
