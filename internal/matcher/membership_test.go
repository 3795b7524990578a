package matcher

import (
	"context"
	"errors"
	"testing"
)

type countingChecker struct {
	answer bool
	err    error
	calls  int
}

func (c *countingChecker) InCollection(context.Context, string, string) (bool, error) {
	c.calls++
	return c.answer, c.err
}

func TestMemoizedReturnsCachedAnswer(t *testing.T) {
	inner := &countingChecker{answer: true}
	memo := NewMemoized(inner)

	for i := 0; i < 3; i++ {
		got, err := memo.InCollection(context.Background(), "55", "100")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got {
			t.Fatal("expected membership to be true")
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected exactly one inner lookup, got %d", inner.calls)
	}
}

func TestMemoizedKeysOnCollectionAndProduct(t *testing.T) {
	inner := &countingChecker{answer: false}
	memo := NewMemoized(inner)

	pairs := [][2]string{{"55", "100"}, {"55", "101"}, {"56", "100"}}
	for _, pair := range pairs {
		if _, err := memo.InCollection(context.Background(), pair[0], pair[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.calls != len(pairs) {
		t.Fatalf("expected %d distinct lookups, got %d", len(pairs), inner.calls)
	}
}

func TestMemoizedDoesNotCacheErrors(t *testing.T) {
	inner := &countingChecker{err: errors.New("down")}
	memo := NewMemoized(inner)

	if _, err := memo.InCollection(context.Background(), "55", "100"); err == nil {
		t.Fatal("expected error")
	}

	inner.err = nil
	inner.answer = true
	got, err := memo.InCollection(context.Background(), "55", "100")
	if err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if !got {
		t.Fatal("expected recovered lookup to succeed")
	}
	if inner.calls != 2 {
		t.Fatalf("expected the failed lookup to be retried, got %d calls", inner.calls)
	}
}

func TestMemoizedNilInner(t *testing.T) {
	memo := NewMemoized(nil)
	got, err := memo.InCollection(context.Background(), "55", "100")
	if err != nil || got {
		t.Fatalf("expected (false, nil) for nil inner, got (%v, %v)", got, err)
	}
}
