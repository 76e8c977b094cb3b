package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// writeProjectFile writes content to a file under the project directory.
//
// The function ensures:
//   - The output path is relative to projectDir (no path traversal)
//   - Parent directories are created if needed
//   - Existing files are never overwritten (returns error if file exists)
func writeProjectFile(projectDir, relativePath string, content []byte) (string, error) {
	if projectDir == "" {
		return "", errors.New("project directory is required")
	}
	if relativePath == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", errors.New("output path must be relative to the project")
	}

	fullPath := filepath.Join(projectDir, cleanRel)
	rel, err := filepath.Rel(projectDir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.New("output path escapes project directory")
	}

	if err = os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	// #nosec G304 -- fullPath is validated to stay under projectDir.
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, syscall.EEXIST) {
			return "", fmt.Errorf("file already exists: %s", fullPath)
		}
		return "", fmt.Errorf("write output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write(content); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}

	return fullPath, nil
}
