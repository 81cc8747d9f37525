package kvstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "auth-storage"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := m.Set(ctx, "auth-storage", []byte(`{"user":null}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := m.Get(ctx, "auth-storage")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != `{"user":null}` {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := m.Delete(ctx, "auth-storage"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := m.Get(ctx, "auth-storage"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	buf := []byte("light")
	if err := m.Set(ctx, "theme-storage", buf); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	buf[0] = 'X'

	got, err := m.Get(ctx, "theme-storage")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "light" {
		t.Fatalf("stored value aliased caller buffer: %s", got)
	}
}
