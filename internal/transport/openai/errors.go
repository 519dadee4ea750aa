package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/basil-labs/basil/internal/domain"
)

// Failure kinds, used as the error_type metric label.
const (
	kindTimeout     = "timeout"
	kindRateLimited = "rate_limited"
	kindAuth        = "auth"
	kindServer      = "server_error"
	kindAPI         = "api_error"
	kindNetwork     = "network"
	kindEmpty       = "empty_response"
	kindDimensions  = "dimension_mismatch"
)

// statusOf returns the HTTP status carried by a client error, or 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func classifyError(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return kindTimeout
	}
	switch status := statusOf(err); {
	case status == 0:
		return kindNetwork
	case status == http.StatusTooManyRequests:
		return kindRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return kindAuth
	case status >= http.StatusInternalServerError:
		return kindServer
	default:
		return kindAPI
	}
}

// providerError wraps err in domain.ErrEmbeddingProviderError, keeping the most
// readable message the provider sent.
func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrEmbeddingProviderError)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, bodyMessage(reqErr.Body), domain.ErrEmbeddingProviderError)
	}
	return fmt.Errorf("embedding request failed: %w: %w", domain.ErrEmbeddingProviderError, err)
}

// bodyMessage prefers the {"detail": ...} field some compatible providers
// (Nebius) return instead of the OpenAI error envelope.
func bodyMessage(body []byte) string {
	var env struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Detail != "" {
		return env.Detail
	}
	return string(body)
}
