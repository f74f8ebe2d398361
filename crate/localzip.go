package crate

import (
	"archive/zip"
	"fmt"
)

func loadZipFile(path string) (*Crate, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCrateNotFound, path, err)
	}
	defer r.Close()
	return loadZipReader(path, &r.Reader)
}
