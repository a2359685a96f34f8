// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// newGcsClient uses credentials when given and the ambient application
// default credentials otherwise.
func newGcsClient(ctx context.Context, credentials []byte) (*storage.Client, error) {
	if len(credentials) == 0 {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(
		ctx,
		option.WithCredentialsJSON(credentials),
	)
}

// ListGcsObjects lists the objects of bucket matching a glob pattern. The
// listing is narrowed to the pattern's literal prefix.
func ListGcsObjects(ctx context.Context, bucket, pattern string, credentials []byte) ([]string, error) {
	client, err := newGcsClient(ctx, credentials)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	prefix := pattern
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		prefix = pattern[:i]
	}

	var objects []string
	bucketHandle := client.Bucket(bucket)
	it := bucketHandle.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		objAttrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if ok, _ := path.Match(pattern, objAttrs.Name); ok {
			objects = append(objects, "gs://"+bucket+"/"+objAttrs.Name)
		}
	}

	return objects, nil
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r gcsReader) Close() error {
	err := r.Reader.Close()
	r.client.Close()
	return err
}

type gcsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w gcsWriter) Close() error {
	err := w.Writer.Close()
	w.client.Close()
	return err
}

func CreateGcsReader(ctx context.Context, bucket, name string, credentials []byte) (io.ReadCloser, error) {
	client, err := newGcsClient(ctx, credentials)
	if err != nil {
		return nil, err
	}

	objectReader, err := client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}
	return gcsReader{Reader: objectReader, client: client}, nil
}

func CreateGcsWriter(ctx context.Context, bucket, name string, credentials []byte) (io.WriteCloser, error) {
	client, err := newGcsClient(ctx, credentials)
	if err != nil {
		return nil, err
	}

	objectWriter := client.Bucket(bucket).Object(name).NewWriter(ctx)
	return gcsWriter{Writer: objectWriter, client: client}, nil
}

// LoadCredentials reads a service account JSON file. An empty path leaves
// the storage client on ambient credentials.
func LoadCredentials(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	return string(b), nil
}
