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


package storage

import (
	"context"

	"github.com/poiesic/graphrag/core"
)

// ObjectStore provides access to raw document objects and their per-object
// ingestion status. The status lives with the object itself so a listing
// can report it without a separate bookkeeping database.
type ObjectStore interface {
	// GetObject returns the full content of the object at key.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// SetStatus records the ingestion status for an object. The write is
	// a full replacement of the previous status.
	SetStatus(ctx context.Context, key string, status core.DocumentStatus) error

	// GetStatus returns the recorded status for an object, or
	// ErrStatusUnset if none has been written yet.
	GetStatus(ctx context.Context, key string) (core.DocumentStatus, error)

	// ListByOwner returns every document under the owner's prefix with
	// its current status.
	ListByOwner(ctx context.Context, owner string) ([]core.Document, error)

	// Close releases underlying resources.
	Close() error
}
