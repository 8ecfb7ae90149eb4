package memnode

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	docview "github.com/logicossoftware/go-docview"
)

func TestSetPropertyConversions(t *testing.T) {
	ctx := context.Background()
	n := New(nil)
	cases := []struct {
		typ   docview.PropertyType
		value string
		ok    bool
	}{
		{docview.TypeLong, "42", true},
		{docview.TypeLong, "4.2", false},
		{docview.TypeDouble, "4.2", true},
		{docview.TypeDouble, "x", false},
		{docview.TypeBoolean, "TRUE", true},
		{docview.TypeBoolean, "yes", false},
		{docview.TypeDate, "2024-01-02T03:04:05.000Z", true},
		{docview.TypeDate, "2024-01-02", false},
		{docview.TypeDecimal, "1.25", true},
		{docview.TypeDecimal, "one", false},
		{docview.TypeName, "anything", true},
	}
	for _, tc := range cases {
		err := n.SetProperty(ctx, "p", []string{tc.value}, tc.typ, false)
		if tc.ok && err != nil {
			t.Fatalf("%s %q: %v", tc.typ, tc.value, err)
		}
		if !tc.ok && !errors.Is(err, docview.ErrValueFormat) {
			t.Fatalf("%s %q: expected ErrValueFormat, got %v", tc.typ, tc.value, err)
		}
	}
}

func TestSetPropertyStoresUndefinedAsString(t *testing.T) {
	ctx := context.Background()
	n := New(nil)
	if err := n.SetProperty(ctx, "p", []string{"a", "b"}, docview.TypeUndefined, true); err != nil {
		t.Fatal(err)
	}
	typ, multi, values, ok := n.Get("p")
	if !ok || typ != docview.TypeString || !multi || !reflect.DeepEqual(values, []string{"a", "b"}) {
		t.Fatalf("got %s %t %v %t", typ, multi, values, ok)
	}
	if n.Writes() != 1 {
		t.Fatalf("writes %d", n.Writes())
	}
	if err := n.SetProperty(ctx, "p", nil, docview.TypeString, false); err == nil {
		t.Fatal("expected error for a single value property without values")
	}
	if err := n.SetProperty(ctx, "p", []string{"x"}, docview.TypeBinary, false); !errors.Is(err, docview.ErrValueFormat) {
		t.Fatalf("expected ErrValueFormat, got %v", err)
	}
}

func TestPropertyAndRemove(t *testing.T) {
	ctx := context.Background()
	n := New(nil)
	n.Put("p", docview.TypeLong, true, "1", "2")

	ok, err := n.HasProperty(ctx, "p")
	if err != nil || !ok {
		t.Fatalf("has=%t err=%v", ok, err)
	}
	sp, err := n.Property(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if sp.Type() != docview.TypeLong || !sp.IsMulti() {
		t.Fatalf("got %s %t", sp.Type(), sp.IsMulti())
	}
	vals, _ := sp.Strings()
	vals[0] = "changed"
	if _, _, stored, _ := n.Get("p"); stored[0] != "1" {
		t.Fatal("stored property must not alias returned values")
	}
	if _, err := sp.Binaries(ctx); !errors.Is(err, docview.ErrValueFormat) {
		t.Fatalf("expected ErrValueFormat, got %v", err)
	}

	if err := n.RemoveProperty(ctx, "p"); err != nil {
		t.Fatal(err)
	}
	if err := n.RemoveProperty(ctx, "p"); !errors.Is(err, ErrNoSuchProperty) {
		t.Fatalf("expected ErrNoSuchProperty, got %v", err)
	}
	if _, err := n.Property(ctx, "p"); !errors.Is(err, ErrNoSuchProperty) {
		t.Fatalf("expected ErrNoSuchProperty, got %v", err)
	}
	if n.Removes() != 1 {
		t.Fatalf("removes %d", n.Removes())
	}
}

func TestBinaryHandles(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Put("a", []byte("x"))
	s.Put("b", []byte("x"))
	s.Put("c", []byte("y"))

	a, err := s.BinaryFromReference(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.BinaryFromReference(ctx, "b")
	c, _ := s.BinaryFromReference(ctx, "c")
	if s.Open() != 3 {
		t.Fatalf("open %d", s.Open())
	}
	if !a.Equal(b) || a.Equal(c) {
		t.Fatal("binaries must compare by content")
	}
	for _, h := range []docview.Binary{a, b, c, a} {
		h.Dispose()
	}
	if s.Open() != 0 {
		t.Fatalf("open %d after dispose", s.Open())
	}
	if !a.(*Binary).Disposed() {
		t.Fatal("expected disposed handle")
	}

	if _, err := s.BinaryFromReference(ctx, "missing"); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.BinaryFromReference(canceled, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSetBinaryProperty(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Put("r1", []byte("one"))
	n := New(s)

	h, err := n.ValueFactory().BinaryFromReference(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Dispose()
	if err := n.SetBinaryProperty(ctx, "data", []docview.Binary{h}, false); err != nil {
		t.Fatal(err)
	}
	typ, _, values, _ := n.Get("data")
	if typ != docview.TypeBinary || !reflect.DeepEqual(values, []string{"r1"}) {
		t.Fatalf("got %s %v", typ, values)
	}

	sp, _ := n.Property(ctx, "data")
	bins, err := sp.Binaries(ctx)
	if err != nil || len(bins) != 1 || !bins[0].Equal(h) {
		t.Fatalf("binaries %v err=%v", bins, err)
	}
	bins[0].Dispose()

	foreign := NewStore()
	foreign.Put("r1", []byte("one"))
	fh, _ := foreign.BinaryFromReference(ctx, "r1")
	defer fh.Dispose()
	if err := n.SetBinaryProperty(ctx, "data", []docview.Binary{fh}, false); err == nil {
		t.Fatal("expected error for a binary from another store")
	}

	n.Put("broken", docview.TypeBinary, true, "r1", "gone")
	sp, _ = n.Property(ctx, "broken")
	if _, err := sp.Binaries(ctx); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
	if s.Open() != 1 {
		t.Fatalf("partial resolution leaked handles, open %d", s.Open())
	}
}

func TestDisposeConcurrently(t *testing.T) {
	s := NewStore()
	s.Put("a", []byte("x"))
	h, err := s.BinaryFromReference(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Dispose()
		}()
	}
	wg.Wait()
	if s.Open() != 0 {
		t.Fatalf("open %d after concurrent dispose", s.Open())
	}
}
