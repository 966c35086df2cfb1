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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyDocument indicates a document whose normalized text is empty.
	// This is an input error and fails the ingestion attempt.
	ErrEmptyDocument = errors.New("document text is empty after normalization")

	// ErrInvalidTriple indicates a Triple failed validation.
	ErrInvalidTriple = errors.New("invalid triple")

	// ErrEmptySubject indicates the triple subject is empty after trimming.
	ErrEmptySubject = errors.New("triple subject cannot be empty")

	// ErrEmptyObject indicates the triple object is empty after trimming.
	ErrEmptyObject = errors.New("triple object cannot be empty")

	// ErrEmptyPredicate indicates the predicate is empty after sanitization.
	ErrEmptyPredicate = errors.New("triple predicate is empty after sanitization")

	// ErrInvalidStatus indicates an unknown document status value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrInvalidTransition indicates a document status transition that
	// violates the uploaded -> indexing -> {ready|failed} cycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)
