// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package xos provides extensions to the standard os package.
package xos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileTooLargeError is returned by ReadFileLimit for files over the limit.
type FileTooLargeError struct {
	Path  string
	Limit int64
}

// Error implements error.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is larger than %d bytes", e.Path, e.Limit)
}

// ExpandHome expands a leading "~" or "~/" in a path to the user's home directory.
//
// Paths of the form "~user" are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// ReadFileLimit reads the file at path, failing with a *FileTooLargeError if
// it holds more than limit bytes.
func ReadFileLimit(path string, limit int64) (_ []byte, retErr error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &FileTooLargeError{Path: path, Limit: limit}
	}
	return data, nil
}
