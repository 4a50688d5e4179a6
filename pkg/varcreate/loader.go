package varcreate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize bounds a single configuration file to keep memory use fixed.
const MaxFileSize = 256 * 1024

// varFileSuffix selects configuration files in directory mode.
const varFileSuffix = ".json"

// readVarFile loads one configuration file into memory. Non-regular files
// and files over MaxFileSize are rejected before any read happens; a read
// that cannot deliver the whole file reports an I/O failure.
func readVarFile(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat variable file: %w", err)
	}

	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("variable file %s is not a regular file", path)
	}

	if fi.Size() > MaxFileSize {
		return "", fmt.Errorf("variable file %s is %d bytes, maximum is %d",
			path, fi.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read variable file: %w", err)
	}

	return string(data), nil
}

// CreateFromDir processes every *.json file in a directory, non-recursively.
// Subdirectories and other suffixes are skipped. Each file runs through
// CreateFromFile independently; a failing file does not stop the ones after
// it, and the most recent failure becomes the result. An unreadable
// directory is an immediate error.
func CreateFromDir(ctx context.Context, srv VarServer, dir string, opts *Options) error {
	if srv == nil {
		return fmt.Errorf("variable server cannot be nil")
	}
	if opts == nil {
		return fmt.Errorf("creation options cannot be nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read variable directory: %w", err)
	}

	var result error

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), varFileSuffix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		// Follow symlinks so a link to a directory is skipped like one.
		fi, err := os.Stat(path)
		if err != nil {
			log.Printf("[VarCreate] skipping %s: %v", path, err)
			continue
		}
		if fi.IsDir() {
			continue
		}

		if opts.Verbose {
			log.Printf("[VarCreate] processing %s", path)
		}

		if err := CreateFromFile(ctx, srv, path, opts); err != nil {
			result = err
		}
	}

	return result
}
