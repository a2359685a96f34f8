// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrBadScheme = errors.New("bad url scheme")

// parseLocation splits a storage location into its scheme, host and path.
// Plain paths are treated as file locations.
func parseLocation(urlString string) (scheme, host, name string, err error) {
	if !strings.Contains(urlString, "://") {
		return "file", "", urlString, nil
	}

	var thisUrl *url.URL
	thisUrl, err = url.Parse(urlString)
	if err != nil {
		return
	}
	switch thisUrl.Scheme {
	case "gs":
		return "gs", thisUrl.Host, strings.TrimLeft(thisUrl.Path, "/"), nil
	case "file":
		return "file", "", filepath.Clean(fmt.Sprintf("%v/%v", thisUrl.Host, strings.TrimLeft(thisUrl.Path, "/"))), nil
	}
	return "", "", "", fmt.Errorf("%w: %v", ErrBadScheme, thisUrl.Scheme)
}

// ListResource returns the locations matching a glob pattern, which may be a
// local path, a file:// URL or a gs:// URL. Results are sorted.
func ListResource(ctx context.Context, pattern, credentials string) (names []string, err error) {
	var scheme, host, name string
	scheme, host, name, err = parseLocation(pattern)
	if err != nil {
		return
	}

	switch scheme {
	case "gs":
		names, err = ListGcsObjects(ctx, host, name, []byte(credentials))
	case "file":
		names, err = filepath.Glob(name)
	}
	sort.Strings(names)
	return
}

// GetReader opens a location for reading.
func GetReader(ctx context.Context, urlString, credentials string) (reader io.ReadCloser, err error) {
	var scheme, host, name string
	scheme, host, name, err = parseLocation(urlString)
	if err != nil {
		return
	}

	switch scheme {
	case "gs":
		reader, err = CreateGcsReader(ctx, host, name, []byte(credentials))
	case "file":
		reader, err = os.Open(name)
	}
	return
}

// GetWriter creates a location for writing. Local parent directories are
// created as needed.
func GetWriter(ctx context.Context, urlString, credentials string) (writer io.WriteCloser, err error) {
	var scheme, host, name string
	scheme, host, name, err = parseLocation(urlString)
	if err != nil {
		return
	}

	switch scheme {
	case "gs":
		writer, err = CreateGcsWriter(ctx, host, name, []byte(credentials))
	case "file":
		if dir := filepath.Dir(name); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return
			}
		}
		writer, err = os.Create(name)
	}
	return
}

// Exists reports whether a location can be opened.
func Exists(ctx context.Context, urlString, credentials string) bool {
	r, err := GetReader(ctx, urlString, credentials)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// FindFile walks root for a file called name and returns its path.
func FindFile(name, root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return found, nil
}
