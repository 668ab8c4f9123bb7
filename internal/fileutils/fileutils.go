// Package fileutils provides the file operations of the command line: finding
// statement files and writing export output.
package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StatementExtensions are the input file types the pipeline can load.
var StatementExtensions = []string{".pdf", ".txt", ".csv", ".json", ".xml"}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFile writes data to a file, creating any parent directories.
func WriteFile(filePath string, data []byte) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ResolveOutputPath decides where an export lands. An empty output means the
// suggested name in the working directory; an existing directory or a path
// ending in a separator receives the suggested name; anything else is used
// as the file path.
func ResolveOutputPath(output, suggested string) string {
	switch {
	case output == "":
		return suggested
	case strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/"):
		return filepath.Join(output, suggested)
	case DirectoryExists(output):
		return filepath.Join(output, suggested)
	}
	return output
}

// ListFilesWithExtensions walks dirPath and returns the files whose
// extension matches one of exts (case-insensitive), sorted by path. Hidden
// files and directories are skipped.
func ListFilesWithExtensions(dirPath string, exts ...string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
