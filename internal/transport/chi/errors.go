package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/basil-labs/basil/internal/domain"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest             = "bad_request"
	codeInvalidArgument        = "invalid_argument"
	codeDimensionMismatch      = "dimension_mismatch"
	codeNotFound               = "not_found"
	codeVectorNotFound         = "vector_not_found"
	codeAlreadyExists          = "already_exists"
	codeEmbeddingNotConfigured = "embedding_not_configured"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeTimeout                = "timeout"
	codeCancelled              = "cancelled"
	codeInternalError          = "internal_error"
)

// statusClientClosedRequest is the nginx convention for a request the client abandoned.
const statusClientClosedRequest = 499

const (
	messageInternalError  = "internal error"
	headerEmbeddingTokens = "X-Embedding-Tokens"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrVectorNotFound, http.StatusNotFound, codeVectorNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeInvalidArgument),
		sentinelHandler(domain.ErrEmbeddingNotConfigured, http.StatusNotImplemented, codeEmbeddingNotConfigured),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout),
		sentinelHandler(context.Canceled, statusClientClosedRequest, codeCancelled),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors are caused by the request, so their full text is returned.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrDimensionMismatch) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrVectorNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrEmbeddingNotConfigured,
		domain.ErrEmbeddingProviderError,
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return messageInternalError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
