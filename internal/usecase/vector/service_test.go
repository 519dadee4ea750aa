package vector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
)

// --- Mocks ---

type mockRepo struct {
	inserted    []domvec.Record
	insertErr   error
	getResult   domvec.Record
	getErr      error
	deleted     bool
	deleteErr   error
	listResult  []domvec.Record
	listNext    string
	listLimit   int
	listErr     error
	insertCalls int
}

func (m *mockRepo) Insert(_ context.Context, _ string, records []domvec.Record) (int, error) {
	m.insertCalls++
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = records
	return len(records), nil
}

func (m *mockRepo) GetVector(_ context.Context, _, _ string) (domvec.Record, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) DeleteVector(_ context.Context, _, _ string) (bool, error) {
	return m.deleted, m.deleteErr
}

func (m *mockRepo) ListVectors(_ context.Context, _, _ string, limit int) ([]domvec.Record, string, error) {
	m.listLimit = limit
	return m.listResult, m.listNext, m.listErr
}

type mockCollections struct {
	col domcol.Collection
	err error
}

func (m *mockCollections) Get(_ context.Context, _ string) (domcol.Collection, error) {
	return m.col, m.err
}

type mockCounter struct{ total float64 }

func (c *mockCounter) Add(v float64) { c.total += v }

func makeCollection(t *testing.T, dim int) *mockCollections {
	t.Helper()
	col, err := domcol.New("col_1", "docs", dim, "")
	if err != nil {
		t.Fatalf("domcol.New: %v", err)
	}
	return &mockCollections{col: col}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("vec_%d", n)
	}
}

// --- Tests ---

func TestInsert_Success(t *testing.T) {
	repo := &mockRepo{}
	counter := &mockCounter{}
	svc := New(repo, makeCollection(t, 3)).
		WithIDGenerator(sequentialIDs()).
		WithCounters(counter, nil)

	n, err := svc.Insert(context.Background(), "col_1", []Input{
		{ID: "a", Values: []float32{1, 0, 0}},
		{Values: []float32{0, 1, 0}, Metadata: map[string]any{"category": "Electronics"}},
		{Values: []float32{0, 0, 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("inserted = %d, want 3", n)
	}
	if counter.total != 3 {
		t.Errorf("counter = %v, want 3", counter.total)
	}

	ids := []string{repo.inserted[0].ID(), repo.inserted[1].ID(), repo.inserted[2].ID()}
	if ids[0] != "a" || ids[1] != "vec_1" || ids[2] != "vec_2" {
		t.Errorf("ids = %v", ids)
	}
}

func TestInsert_GeneratedIDsSkipCallerIDs(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, makeCollection(t, 1)).WithIDGenerator(sequentialIDs())

	_, err := svc.Insert(context.Background(), "col_1", []Input{
		{ID: "vec_1", Values: []float32{1}},
		{Values: []float32{2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted[1].ID() != "vec_2" {
		t.Errorf("generated id %q collides with caller id", repo.inserted[1].ID())
	}
}

func TestInsert_GeneratorCollisions(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, makeCollection(t, 1)).WithIDGenerator(func() string { return "same" })

	_, err := svc.Insert(context.Background(), "col_1", []Input{
		{Values: []float32{1}},
		{Values: []float32{2}},
	})
	if err == nil {
		t.Fatal("expected error when the generator keeps colliding")
	}
	if repo.insertCalls != 0 {
		t.Error("repo must not be called")
	}
}

func TestInsert_ValidationFailsWholeBatch(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
	}{
		{"dimension mismatch", []Input{{Values: []float32{1, 2, 3}}, {Values: []float32{1, 2}}}},
		{"empty values", []Input{{ID: "a"}}},
		{"nested metadata", []Input{{Values: []float32{1, 2, 3}, Metadata: map[string]any{"x": []int{1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := New(repo, makeCollection(t, 3))
			_, err := svc.Insert(context.Background(), "col_1", tt.inputs)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if repo.insertCalls != 0 {
				t.Error("repo must not be called on validation failure")
			}
		})
	}
}

func TestInsert_BatchTooLarge(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, makeCollection(t, 1)).WithMaxBatchSize(2)
	inputs := []Input{{Values: []float32{1}}, {Values: []float32{2}}, {Values: []float32{3}}}

	_, err := svc.Insert(context.Background(), "col_1", inputs)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestInsert_UnknownCollection(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockCollections{err: domain.ErrNotFound})

	_, err := svc.Insert(context.Background(), "ghost", []Input{{Values: []float32{1}}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.insertCalls != 0 {
		t.Error("repo must not be called for unknown collection")
	}
}

func TestInsert_EmptyBatch(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, makeCollection(t, 1))
	n, err := svc.Insert(context.Background(), "col_1", nil)
	if err != nil || n != 0 {
		t.Fatalf("Insert(nil) = (%d, %v), want (0, nil)", n, err)
	}
	if repo.insertCalls != 0 {
		t.Error("empty batch must not reach the repo")
	}
}

func TestInsert_RepoConflict(t *testing.T) {
	svc := New(&mockRepo{insertErr: domain.ErrAlreadyExists}, makeCollection(t, 1))
	_, err := svc.Insert(context.Background(), "col_1", []Input{{ID: "a", Values: []float32{1}}})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet(t *testing.T) {
	rec, _ := domvec.New("a", []float32{1}, nil)
	svc := New(&mockRepo{getResult: rec}, makeCollection(t, 1))
	got, err := svc.Get(context.Background(), "col_1", "a")
	if err != nil || got.ID() != "a" {
		t.Fatalf("Get = (%q, %v)", got.ID(), err)
	}

	svc = New(&mockRepo{getErr: domain.ErrVectorNotFound}, makeCollection(t, 1))
	if _, err := svc.Get(context.Background(), "col_1", "zzz"); !errors.Is(err, domain.ErrVectorNotFound) {
		t.Fatalf("expected ErrVectorNotFound, got %v", err)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 20},
		{-5, 20},
		{50, 50},
		{500, 100},
	}
	for _, tt := range tests {
		repo := &mockRepo{}
		svc := New(repo, makeCollection(t, 1))
		if _, _, err := svc.List(context.Background(), "col_1", "", tt.in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.listLimit != tt.want {
			t.Errorf("limit %d -> %d, want %d", tt.in, repo.listLimit, tt.want)
		}
	}
}

func TestDelete(t *testing.T) {
	counter := &mockCounter{}
	svc := New(&mockRepo{deleted: true}, makeCollection(t, 1)).WithCounters(nil, counter)
	if err := svc.Delete(context.Background(), "col_1", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.total != 1 {
		t.Errorf("deleted counter = %v, want 1", counter.total)
	}

	svc = New(&mockRepo{deleted: false}, makeCollection(t, 1)).WithCounters(nil, counter)
	if err := svc.Delete(context.Background(), "col_1", "a"); err != nil {
		t.Fatalf("missing vector must be a no-op, got %v", err)
	}
	if counter.total != 1 {
		t.Errorf("no-op delete changed counter to %v", counter.total)
	}

	svc = New(&mockRepo{deleteErr: domain.ErrNotFound}, makeCollection(t, 1))
	if err := svc.Delete(context.Background(), "ghost", "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
