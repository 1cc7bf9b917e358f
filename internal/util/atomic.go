// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across farmdesk packages.
package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirPerm is the mode of directories created for state and config
// files. They hold conversation text, so only the owner may list them.
const StateDirPerm os.FileMode = 0700

// AtomicWriteFile replaces path with data so that a reader, or a restart
// after a crash, sees either the previous file or the complete new one.
//
// The data goes to a hidden sibling temp file, is synced, gets mode perm and
// is renamed over path. Missing parent directories are created with
// StateDirPerm; existing ones keep their mode.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, StateDirPerm); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Same directory, so the rename never crosses filesystems.
	f, err := os.CreateTemp(dir, "."+filepath.Base(absPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	// Windows refuses to rename an open file.
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, absPath); err != nil {
		return fmt.Errorf("replace %s: %w", absPath, err)
	}
	return nil
}
