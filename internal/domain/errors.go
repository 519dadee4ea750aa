package domain

import "errors"

var (
	// ErrNotFound signals a missing collection.
	ErrNotFound = errors.New("not found")
	// ErrVectorNotFound signals a missing vector record.
	ErrVectorNotFound = errors.New("vector not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument signals a request that failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDimensionMismatch signals a query vector whose length differs from the collection dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmbeddingNotConfigured signals a text query without an embedding provider.
	ErrEmbeddingNotConfigured = errors.New("embedding not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
