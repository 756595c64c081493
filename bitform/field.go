package bitform

import (
	"fmt"
	"strings"
)

// Field is a node of the result tree: a Record (DictField), a List
// (ListField), or a Scalar (ScalarField). Every non-root field carries a
// weak back-reference to the field that was passed as parent during
// parsing, used only for upward Ref resolution.
type Field interface {
	// Name returns the field's name, or nil if anonymous.
	Name() *string
	// Parent returns the containing field, or nil at the root.
	Parent() Field
	// FindRef resolves a "/"-separated reference path rooted at this
	// field. It is a pure function of the tree at call time; it never
	// touches the cursor.
	FindRef(ref string) (Field, error)
}

// base is embedded by every concrete Field implementation.
type base struct {
	name   *string
	parent Field
}

func (b *base) Name() *string { return b.name }
func (b *base) Parent() Field { return b.parent }

// noValueField is the sentinel Pad tokens return so Sequence and Repeat
// know to contribute nothing to their enclosing record.
type noValueField struct{}

func (noValueField) Name() *string                    { return nil }
func (noValueField) Parent() Field                     { return nil }
func (noValueField) FindRef(string) (Field, error)     { return nil, fmt.Errorf("%w: no value", ErrReference) }

// NoValue is returned by Pad and recognized by Sequence/Repeat as
// "contributes nothing".
var NoValue Field = noValueField{}

// entry is one ordered key/value pair of a DictField.
type entry struct {
	key   string
	value Field
}

// DictField is an ordered record: a mapping from child name to child field
// that preserves insertion (parse) order.
type DictField struct {
	base
	entries []entry
	index   map[string]int
}

// NewDict creates an empty record field.
func NewDict(name *string, parent Field) *DictField {
	return &DictField{
		base:  base{name: name, parent: parent},
		index: make(map[string]int),
	}
}

// Get looks up a direct child by key.
func (d *DictField) Get(key string) (Field, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].value, true
}

// Set inserts or, if key already exists, overwrites a child value in
// place (position is not moved on overwrite, matching ordered-map
// assignment semantics).
func (d *DictField) Set(key string, value Field) {
	if i, ok := d.index[key]; ok {
		d.entries[i].value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, entry{key: key, value: value})
}

// Prepend inserts key at the head of the ordered record.
func (d *DictField) Prepend(key string, value Field) {
	if _, ok := d.index[key]; ok {
		d.Set(key, value)
		return
	}
	d.entries = append([]entry{{key: key, value: value}}, d.entries...)
	for k, i := range d.index {
		d.index[k] = i + 1
	}
	d.index[key] = 0
}

// Delete removes key, if present.
func (d *DictField) Delete(key string) {
	i, ok := d.index[key]
	if !ok {
		return
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, key)
	for k, idx := range d.index {
		if idx > i {
			d.index[k] = idx - 1
		}
	}
}

// Keys returns the child names in insertion order.
func (d *DictField) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of direct children.
func (d *DictField) Len() int { return len(d.entries) }

// Merge copies every key of other into d, in order. A key already present
// in d is overwritten in place, matching Sequence's anonymous-child merge
// (last wins, position unspecified is avoided by keeping d's position).
func (d *DictField) Merge(other *DictField) {
	for _, e := range other.entries {
		d.Set(e.key, e.value)
	}
}

// MergeStrict behaves like Merge but fails on a duplicate key, used by the
// Squash converter.
func (d *DictField) MergeStrict(other *DictField) error {
	for _, e := range other.entries {
		if _, exists := d.index[e.key]; exists {
			return fmt.Errorf("%w: duplicate key %q", ErrConverter, e.key)
		}
		d.Set(e.key, e.value)
	}
	return nil
}

// Rename returns a clone of d under a new name, leaving d itself
// unchanged; used by the Rekey converter to rename a record to the value
// of one of its own fields.
func (d *DictField) Rename(name string) *DictField {
	nd := &DictField{
		base:    base{name: &name, parent: d.parent},
		entries: append([]entry{}, d.entries...),
		index:   make(map[string]int, len(d.index)),
	}
	for k, v := range d.index {
		nd.index[k] = v
	}
	return nd
}

// FindRef implements the path resolver described for record fields.
func (d *DictField) FindRef(ref string) (Field, error) {
	if rest, ok := strings.CutPrefix(ref, "../"); ok {
		if d.parent == nil {
			return nil, fmt.Errorf("%w: %q has no parent", ErrReference, refName(d.name))
		}
		return d.parent.FindRef(rest)
	}
	ref = strings.TrimPrefix(ref, "./")

	head, rest, _ := strings.Cut(ref, "/")
	child, ok := d.Get(head)
	if !ok {
		return nil, fmt.Errorf("%w: no such field %q", ErrReference, head)
	}
	if rest == "" {
		return child, nil
	}
	return child.FindRef(rest)
}

// ListField is an ordered sequence of child fields, built by Repeat.
type ListField struct {
	base
	items []Field
}

// NewList creates an empty list field.
func NewList(name *string, parent Field) *ListField {
	return &ListField{base: base{name: name, parent: parent}}
}

// Append adds a field to the end of the list.
func (l *ListField) Append(f Field) { l.items = append(l.items, f) }

// Items returns the list's children in order.
func (l *ListField) Items() []Field { return l.items }

// Len returns the number of elements.
func (l *ListField) Len() int { return len(l.items) }

// FindRef on a list only supports popping to the parent: lists have no
// named children.
func (l *ListField) FindRef(ref string) (Field, error) {
	rest, ok := strings.CutPrefix(ref, "../")
	if !ok {
		return nil, fmt.Errorf("%w: %q is a list, has no named children", ErrReference, refName(l.name))
	}
	if l.parent == nil {
		return nil, fmt.Errorf("%w: %q has no parent", ErrReference, refName(l.name))
	}
	return l.parent.FindRef(rest)
}

// ScalarField is a terminal value: an unsigned/signed integer, boolean,
// raw byte string, or a converter-produced value such as an enum label or
// bitmask list.
type ScalarField struct {
	base
	value     any
	fieldType *FieldType
}

// NewScalar creates a terminal field wrapping value.
func NewScalar(name *string, parent Field, value any, ft *FieldType) *ScalarField {
	return &ScalarField{base: base{name: name, parent: parent}, value: value, fieldType: ft}
}

// Value returns the raw underlying value.
func (s *ScalarField) Value() any { return s.value }

// FieldType returns the optional typed-rendering contract for this value.
func (s *ScalarField) FieldType() *FieldType { return s.fieldType }

// FindRef on a scalar only supports popping to the parent.
func (s *ScalarField) FindRef(ref string) (Field, error) {
	rest, ok := strings.CutPrefix(ref, "../")
	if !ok {
		return nil, fmt.Errorf("%w: %q is a scalar, has no children", ErrReference, refName(s.name))
	}
	if s.parent == nil {
		return nil, fmt.Errorf("%w: %q has no parent", ErrReference, refName(s.name))
	}
	return s.parent.FindRef(rest)
}

func refName(name *string) string {
	if name == nil {
		return "<anonymous>"
	}
	return *name
}

// scalarValue extracts the raw comparable value used for tag/count lookups
// from a resolved reference field.
func scalarValue(f Field) (any, error) {
	s, ok := f.(*ScalarField)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a scalar field", ErrReference, refName(f.Name()))
	}
	return s.value, nil
}

// toInt64 normalizes an integer-ish scalar value for count/tag comparison.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
