// Package repository defines the roster store interface and errors.
package repository

import "os"

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithResetMarker sets the path of the season reset marker file.
func WithResetMarker(path string) Option {
	return func(s *CSVStore) {
		if path != "" {
			s.resetPath = path
		}
	}
}

// WithFilePerm sets the mode of the roster and marker files.
func WithFilePerm(perm os.FileMode) Option {
	return func(s *CSVStore) {
		if perm != 0 {
			s.filePerm = perm
		}
	}
}
