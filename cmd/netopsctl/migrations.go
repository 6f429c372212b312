package main

import (
	"fmt"
	"io/fs"
	"sort"
)

// upMigrations lists the *.up.sql files at the root of fsys in version
// order.
func upMigrations(fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// pendingMigrations counts the files whose version prefix is above the
// applied version. Files without a numeric prefix are ignored.
func pendingMigrations(files []string, applied uint) int {
	pending := 0
	for _, name := range files {
		var version uint
		if _, err := fmt.Sscanf(name, "%d_", &version); err == nil && version > applied {
			pending++
		}
	}
	return pending
}
