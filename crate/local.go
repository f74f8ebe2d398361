package crate

import (
	"fmt"
	"os"
	"path/filepath"
)

type dirFileSet struct {
	root string
}

func (d dirFileSet) Exists(relativePath string) bool {
	clean := filepath.Clean(relativePath)
	if clean == "." {
		return true
	}
	_, err := os.Stat(filepath.Join(d.root, clean))
	return err == nil
}

func loadDir(root string) (*Crate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCrateNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCrateNotFound, root)
	}

	metaPath := filepath.Join(root, metadataFileName)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMetadataMissing, metaPath)
		}
		return nil, fmt.Errorf("crate: reading %s: %w", metaPath, err)
	}

	doc, err := parseMetadata(data)
	if err != nil {
		return nil, err
	}

	return &Crate{
		uri:   root,
		doc:   doc,
		files: dirFileSet{root: root},
		sizeFn: func() (int64, error) {
			return dirSize(root)
		},
	}, nil
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
