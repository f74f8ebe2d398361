package crate

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/net/idna"
)

// loadRemoteZip downloads uri (an http(s) URL to a zip archive) into
// the content-addressed cache directory, writing via a temp file plus
// atomic rename so concurrent validations of the same remote crate
// converge on a single cached copy without corruption, then loads it
// as a local zip.
func loadRemoteZip(ctx context.Context, uri string, opts Options) (*Crate, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolving cache dir: %v", ErrNetwork, err)
		}
		cacheDir = filepath.Join(dir, "rocval", "crates")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating cache dir: %v", ErrNetwork, err)
	}

	cachePath, err := cachePathFor(cacheDir, uri)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cachePath); err != nil {
		if err := download(ctx, uri, cachePath); err != nil {
			return nil, err
		}
	}

	r, err := zip.OpenReader(cachePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveCorrupt, uri, err)
	}
	defer r.Close()
	return loadZipReader(uri, &r.Reader)
}

// cachePathFor derives the cache file path for uri: the hostname is
// IDNA-normalized to ASCII so visually-identical internationalized
// hostnames share one cache entry, then the whole normalized URI is
// hashed to the cache key.
func cachePathFor(cacheDir, uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %v", ErrNetwork, uri, err)
	}
	if parsed.Host != "" {
		ascii, err := idna.Lookup.ToASCII(parsed.Hostname())
		if err == nil {
			parsed.Host = ascii
			if port := parsed.Port(); port != "" {
				parsed.Host = ascii + ":" + port
			}
		}
	}
	sum := sha256.Sum256([]byte(parsed.String()))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:])+".zip"), nil
}

func download(ctx context.Context, uri, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrNetwork, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrNetwork, uri, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(cachePath), ".download-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrNetwork, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing temp file: %v", ErrNetwork, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp file: %v", ErrNetwork, err)
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		return fmt.Errorf("%w: renaming into cache: %v", ErrNetwork, err)
	}
	return nil
}
