package basil

import "github.com/basil-labs/basil/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrVectorNotFound         = domain.ErrVectorNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrInvalidArgument        = domain.ErrInvalidArgument
	ErrDimensionMismatch      = domain.ErrDimensionMismatch
	ErrEmbeddingNotConfigured = domain.ErrEmbeddingNotConfigured
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
