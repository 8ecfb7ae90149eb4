// Package memnode provides an in-memory repository node and binary store
// implementing the docview apply interfaces.
package memnode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	docview "github.com/logicossoftware/go-docview"
)

var (
	ErrUnknownReference = errors.New("memnode: unknown binary reference")
	ErrNoSuchProperty   = errors.New("memnode: no such property")
)

// Store holds binary content keyed by reference token and tracks the
// handles it has handed out.
type Store struct {
	mu    sync.Mutex
	blobs map[string][]byte
	open  int
}

func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Put stores data under ref.
func (s *Store) Put(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = bytes.Clone(data)
}

// Open returns the number of handles not yet disposed.
func (s *Store) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// BinaryFromReference implements docview.ValueFactory.
func (s *Store) BinaryFromReference(ctx context.Context, ref string) (docview.Binary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, ref)
	}
	s.open++
	return &Binary{store: s, ref: ref, data: data}, nil
}

func (s *Store) release() {
	s.mu.Lock()
	s.open--
	s.mu.Unlock()
}

// Binary is a handle to content in a Store.
type Binary struct {
	store    *Store
	ref      string
	data     []byte
	disposed atomic.Bool
}

func (b *Binary) Reference() string { return b.ref }

// Equal compares content.
func (b *Binary) Equal(other docview.Binary) bool {
	o, ok := other.(*Binary)
	return ok && bytes.Equal(b.data, o.data)
}

func (b *Binary) Dispose() {
	if b.disposed.Swap(true) {
		return
	}
	b.store.release()
}

func (b *Binary) Disposed() bool { return b.disposed.Load() }

type property struct {
	typ    docview.PropertyType
	multi  bool
	values []string // binary properties hold reference tokens
}

// Node is an in-memory docview.Node. It is safe for concurrent use.
type Node struct {
	mu      sync.Mutex
	store   *Store
	props   map[string]property
	writes  int
	removes int
}

func New(store *Store) *Node {
	if store == nil {
		store = NewStore()
	}
	return &Node{store: store, props: make(map[string]property)}
}

// Put stores a property without any conversion checks.
func (n *Node) Put(name string, typ docview.PropertyType, multi bool, values ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props[name] = property{typ: typ, multi: multi, values: slices.Clone(values)}
}

// Get returns the stored type, multiplicity and values of name.
func (n *Node) Get(name string) (docview.PropertyType, bool, []string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.props[name]
	return p.typ, p.multi, slices.Clone(p.values), ok
}

// Writes returns the number of successful set operations.
func (n *Node) Writes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.writes
}

// Removes returns the number of removed properties.
func (n *Node) Removes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.removes
}

func (n *Node) HasProperty(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.props[name]
	return ok, nil
}

func (n *Node) Property(ctx context.Context, name string) (docview.StoredProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchProperty, name)
	}
	return &storedProperty{property: property{typ: p.typ, multi: p.multi, values: slices.Clone(p.values)}, store: n.store}, nil
}

func (n *Node) RemoveProperty(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.props[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchProperty, name)
	}
	delete(n.props, name)
	n.removes++
	return nil
}

// SetProperty converts every value to typ and stores them. Undefined values
// are stored as String.
func (n *Node) SetProperty(ctx context.Context, name string, values []string, typ docview.PropertyType, multi bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !multi && len(values) != 1 {
		return fmt.Errorf("memnode: single value property %q with %d values", name, len(values))
	}
	if typ == docview.TypeUndefined {
		typ = docview.TypeString
	}
	if typ == docview.TypeBinary {
		return fmt.Errorf("%w: binary %q must be set from binary values", docview.ErrValueFormat, name)
	}
	for _, v := range values {
		if err := checkConvertible(v, typ); err != nil {
			return err
		}
	}
	n.Put(name, typ, multi, values...)
	n.mu.Lock()
	n.writes++
	n.mu.Unlock()
	return nil
}

func (n *Node) SetBinaryProperty(ctx context.Context, name string, values []docview.Binary, multi bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !multi && len(values) != 1 {
		return fmt.Errorf("memnode: single value property %q with %d values", name, len(values))
	}
	refs := make([]string, 0, len(values))
	for _, v := range values {
		b, ok := v.(*Binary)
		if !ok || b.store != n.store {
			return fmt.Errorf("memnode: binary for %q does not belong to this store", name)
		}
		refs = append(refs, b.ref)
	}
	n.Put(name, docview.TypeBinary, multi, refs...)
	n.mu.Lock()
	n.writes++
	n.mu.Unlock()
	return nil
}

func (n *Node) ValueFactory() docview.ValueFactory { return n.store }

func checkConvertible(v string, typ docview.PropertyType) error {
	var err error
	switch typ {
	case docview.TypeLong:
		_, err = strconv.ParseInt(v, 10, 64)
	case docview.TypeDouble:
		_, err = strconv.ParseFloat(v, 64)
	case docview.TypeBoolean:
		if !strings.EqualFold(v, "true") && !strings.EqualFold(v, "false") {
			err = errors.New("not a boolean")
		}
	case docview.TypeDate:
		_, err = docview.ParseDate(v)
	case docview.TypeDecimal:
		_, err = docview.ParseDecimal(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid %s", docview.ErrValueFormat, v, typ)
	}
	return nil
}

type storedProperty struct {
	property
	store *Store
}

func (p *storedProperty) Type() docview.PropertyType { return p.typ }
func (p *storedProperty) IsMulti() bool              { return p.multi }

func (p *storedProperty) Strings() ([]string, error) {
	return slices.Clone(p.values), nil
}

func (p *storedProperty) Binaries(ctx context.Context) ([]docview.Binary, error) {
	if p.typ != docview.TypeBinary {
		return nil, fmt.Errorf("%w: property of type %s is not binary", docview.ErrValueFormat, p.typ)
	}
	out := make([]docview.Binary, 0, len(p.values))
	for _, ref := range p.values {
		b, err := p.store.BinaryFromReference(ctx, ref)
		if err != nil {
			for _, h := range out {
				h.Dispose()
			}
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
