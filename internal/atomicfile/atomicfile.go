// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package atomicfile writes files that either appear
// complete or not at all.
package atomicfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile calls write with a temporary file
// in the same directory as name. If write
// succeeds, the temporary file is synced,
// closed, and renamed to name. Otherwise, the
// temporary file is removed and any existing
// file called name is left untouched.
func WriteFile(name string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return err
	}

	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return err
	}

	if err = f.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %v", err)
	}

	if err = f.Sync(); err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, name)
}
