package basil

import (
	"context"
	"fmt"

	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/domain/search/filter"
	"github.com/basil-labs/basil/internal/domain/search/request"
	"github.com/basil-labs/basil/internal/domain/search/result"
)

// SearchBuilder is a fluent builder for similarity queries.
// Exactly one of Vector, Text or Similar must be set.
type SearchBuilder struct {
	c            *Client
	collectionID string

	vector  []float32
	text    string
	similar string
	topK    *int
	filters map[string]any
}

// Vector sets a raw query vector.
func (b *SearchBuilder) Vector(v []float32) *SearchBuilder {
	b.vector = v
	return b
}

// Text sets a text query, embedded with the configured Embedder.
func (b *SearchBuilder) Text(q string) *SearchBuilder {
	b.text = q
	return b
}

// Similar anchors the query on a stored vector. The anchor is excluded from results.
func (b *SearchBuilder) Similar(vectorID string) *SearchBuilder {
	b.similar = vectorID
	return b
}

// TopK sets the maximum number of results. Values above the client
// maximum are clamped; k <= 0 fails with ErrInvalidArgument.
func (b *SearchBuilder) TopK(k int) *SearchBuilder {
	b.topK = &k
	return b
}

// Where adds an exact-match metadata condition. Conditions are ANDed.
func (b *SearchBuilder) Where(key string, value any) *SearchBuilder {
	if b.filters == nil {
		b.filters = make(map[string]any)
	}
	b.filters[key] = value
	return b
}

// Do executes the query.
func (b *SearchBuilder) Do(ctx context.Context) (_ SearchResponse, err error) {
	op := "search"
	if b.similar != "" {
		op = "search.similar"
	}
	defer b.c.obs.track(op)(&err)

	expr, err := filter.New(b.filters)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w: %w", domain.ErrInvalidArgument, err)
	}

	ctx, usage := domain.WithQueryUsage(b.c.ctx(ctx))

	var resp result.Response
	if b.similar != "" {
		resp, err = b.doSimilar(ctx, expr)
	} else {
		resp, err = b.doSearch(ctx, expr)
	}
	if err != nil {
		return SearchResponse{}, err
	}
	return fromInternalResponse(resp, usage.Tokens()), nil
}

func (b *SearchBuilder) doSearch(ctx context.Context, expr filter.Expression) (result.Response, error) {
	req, err := request.New(b.vector, b.text, b.topK, expr, b.c.limits)
	if err != nil {
		return result.Response{}, fmt.Errorf("search: %w: %w", domain.ErrInvalidArgument, err)
	}
	resp, err := b.c.searchSvc.Search(ctx, b.collectionID, &req)
	if err != nil {
		return result.Response{}, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

func (b *SearchBuilder) doSimilar(ctx context.Context, expr filter.Expression) (result.Response, error) {
	if len(b.vector) > 0 || b.text != "" {
		return result.Response{}, fmt.Errorf("similar search: %w: vector and text cannot be combined with an anchor",
			domain.ErrInvalidArgument)
	}
	req, err := request.NewSimilar(b.similar, b.topK, expr, b.c.limits)
	if err != nil {
		return result.Response{}, fmt.Errorf("similar search: %w: %w", domain.ErrInvalidArgument, err)
	}
	resp, err := b.c.searchSvc.Similar(ctx, b.collectionID, &req)
	if err != nil {
		return result.Response{}, fmt.Errorf("similar search: %w", err)
	}
	return resp, nil
}
