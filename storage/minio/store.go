// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/storage"
)

// statusTagKey is the object tag under which the ingestion status lives.
const statusTagKey = "status"

// Config holds the connection settings for the MinIO object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Bucket holding the documents. Default: "graphrag"
	Bucket string

	// Prefix under which owner-scoped documents live. Default: "documents"
	Prefix string
}

// DefaultConfig returns settings for a local MinIO instance.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "localhost:9000",
		Bucket:   "graphrag",
		Prefix:   "documents",
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio config: Endpoint is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New("minio config: AccessKey and SecretKey are required")
	}
	if c.Bucket == "" {
		c.Bucket = "graphrag"
	}
	if c.Prefix == "" {
		c.Prefix = "documents"
	}
	return nil
}

// Store implements storage.ObjectStore backed by a MinIO bucket.
// Ingestion status is kept as an object tag, so it travels with the object
// and survives without any side database.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewStore connects to MinIO and verifies the bucket exists.
//
// Returns storage.ObjectStore interface to enforce abstraction.
func NewStore(ctx context.Context, config *Config) (storage.ObjectStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", config.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", config.Bucket, err)
		}
	}

	return &Store{
		client: client,
		bucket: config.Bucket,
		prefix: config.Prefix,
		logger: slog.Default().With("component", "minio-store"),
	}, nil
}

// GetObject reads the full object content.
func (s *Store) GetObject(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, storage.ErrEmptyKey
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

// SetStatus replaces the object's status tag.
func (s *Store) SetStatus(ctx context.Context, key string, status core.DocumentStatus) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidStatus, status)
	}

	objectTags, err := tags.NewTags(map[string]string{statusTagKey: string(status)}, true)
	if err != nil {
		return fmt.Errorf("failed to build status tags: %w", err)
	}

	err = s.client.PutObjectTagging(ctx, s.bucket, key, objectTags, minio.PutObjectTaggingOptions{})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
		}
		return fmt.Errorf("failed to tag object %q: %w", key, err)
	}

	s.logger.Debug("object status updated", "key", key, "status", status)
	return nil
}

// GetStatus reads the object's status tag.
func (s *Store) GetStatus(ctx context.Context, key string) (core.DocumentStatus, error) {
	if key == "" {
		return "", storage.ErrEmptyKey
	}

	objectTags, err := s.client.GetObjectTagging(ctx, s.bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
		}
		return "", fmt.Errorf("failed to read tags for %q: %w", key, err)
	}

	raw, ok := objectTags.ToMap()[statusTagKey]
	if !ok {
		return "", storage.ErrStatusUnset
	}

	status := core.DocumentStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidStatus, raw)
	}
	return status, nil
}

// ListByOwner lists every document under the owner's prefix with its
// current status. Objects without a status tag report StatusUploaded.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]core.Document, error) {
	if owner == "" {
		return nil, storage.ErrEmptyOwner
	}

	prefix := s.prefix + "/" + owner + "/"
	var docs []core.Document
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, obj.Err)
		}
		// Skip directory markers.
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		status, err := s.GetStatus(ctx, obj.Key)
		if err != nil {
			if !errors.Is(err, storage.ErrStatusUnset) {
				s.logger.Warn("failed to read object status", "key", obj.Key, "err", err)
			}
			status = core.StatusUploaded
		}

		docs = append(docs, core.Document{
			Key:    obj.Key,
			Owner:  owner,
			Status: status,
		})
	}
	return docs, nil
}

// Close releases underlying resources. The minio client holds no
// persistent connections that need explicit shutdown.
func (s *Store) Close() error {
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchTagSet"
}
