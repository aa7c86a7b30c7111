// Package blob reads and writes save and Pokémon files on the local
// filesystem or in S3-compatible object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a Store implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Blob errors.
var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store is a flat key-to-bytes store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Driver() Driver
}

// S3Scheme prefixes object storage locations: s3://bucket/key.
const S3Scheme = "s3://"

// ParseS3URI splits an s3://bucket/key location. ok is false for anything
// that is not an S3 URI.
func ParseS3URI(uri string) (bucket, key string, ok bool, err error) {
	rest, found := strings.CutPrefix(uri, S3Scheme)
	if !found {
		return "", "", false, nil
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidKey, uri)
	}
	return bucket, key, true, nil
}

// Open returns the store holding uri and the key of uri within it. S3
// stores are configured from the environment.
func Open(ctx context.Context, uri string) (Store, string, error) {
	bucket, key, ok, err := ParseS3URI(uri)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return NewFS(""), uri, nil
	}
	s, err := NewS3(ctx, S3ConfigFromEnv(bucket))
	if err != nil {
		return nil, "", err
	}
	return s, key, nil
}

// Read fetches the blob at uri.
func Read(ctx context.Context, uri string) ([]byte, error) {
	s, key, err := Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, key)
}

// Write stores data at uri, replacing any existing blob.
func Write(ctx context.Context, uri string, data []byte) error {
	s, key, err := Open(ctx, uri)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, data)
}
