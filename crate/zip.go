package crate

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

type zipFileSet struct {
	names map[string]bool // normalized file paths
	dirs  map[string]bool // normalized directory paths, without trailing slash
}

func (z zipFileSet) Exists(relativePath string) bool {
	clean := normalizeZipPath(relativePath)
	if clean == "" {
		return true
	}
	if z.names[clean] {
		return true
	}
	return z.dirs[strings.TrimSuffix(clean, "/")]
}

func normalizeZipPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func newZipFileSet(reader *zip.Reader) zipFileSet {
	set := zipFileSet{names: map[string]bool{}, dirs: map[string]bool{}}
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			set.dirs[normalizeZipPath(f.Name)] = true
			continue
		}
		set.names[normalizeZipPath(f.Name)] = true
	}
	return set
}

func loadZipReader(uri string, reader *zip.Reader) (*Crate, error) {
	var metaFile *zip.File
	for _, f := range reader.File {
		if normalizeZipPath(f.Name) == metadataFileName || strings.HasSuffix(normalizeZipPath(f.Name), "/"+metadataFileName) {
			metaFile = f
			break
		}
	}
	if metaFile == nil {
		return nil, fmt.Errorf("%w: %s", ErrMetadataMissing, metadataFileName)
	}

	rc, err := metaFile.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
	}

	doc, err := parseMetadata(data)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, f := range reader.File {
		total += int64(f.UncompressedSize64)
	}

	return &Crate{
		uri:   uri,
		doc:   doc,
		files: newZipFileSet(reader),
		sizeFn: func() (int64, error) {
			return total, nil
		},
	}, nil
}
