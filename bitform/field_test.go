package bitform

import (
	"errors"
	"testing"
)

func strp(s string) *string { return &s }

func TestDictFieldInsertionOrder(t *testing.T) {
	d := NewDict(nil, nil)
	d.Set("b", NewScalar(strp("b"), d, uint64(2), nil))
	d.Set("a", NewScalar(strp("a"), d, uint64(1), nil))
	d.Set("c", NewScalar(strp("c"), d, uint64(3), nil))

	got := d.Keys()
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestDictFieldSetOverwritesInPlace(t *testing.T) {
	d := NewDict(nil, nil)
	d.Set("a", NewScalar(strp("a"), d, uint64(1), nil))
	d.Set("b", NewScalar(strp("b"), d, uint64(2), nil))
	d.Set("a", NewScalar(strp("a"), d, uint64(99), nil))

	got := d.Keys()
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b] (position preserved)", got)
	}
	v, _ := d.Get("a")
	if v.(*ScalarField).Value() != uint64(99) {
		t.Errorf("Get(a) = %v, want 99", v.(*ScalarField).Value())
	}
}

func TestDictFieldPrepend(t *testing.T) {
	d := NewDict(nil, nil)
	d.Set("a", NewScalar(strp("a"), d, uint64(1), nil))
	d.Prepend("z", NewScalar(strp("z"), d, uint64(0), nil))

	got := d.Keys()
	if got[0] != "z" || got[1] != "a" {
		t.Fatalf("Keys() = %v, want [z a]", got)
	}
}

func TestFindRefSibling(t *testing.T) {
	root := NewDict(nil, nil)
	root.Set("selection", NewScalar(strp("selection"), root, uint64(2), nil))

	f, err := root.FindRef("selection")
	if err != nil {
		t.Fatalf("FindRef: %v", err)
	}
	if f.(*ScalarField).Value() != uint64(2) {
		t.Errorf("FindRef(selection) = %v, want 2", f.(*ScalarField).Value())
	}
}

func TestFindRefParentPop(t *testing.T) {
	root := NewDict(nil, nil)
	root.Set("n", NewScalar(strp("n"), root, uint64(7), nil))

	child := NewDict(strp("child"), root)
	root.Set("child", child)

	f, err := child.FindRef("../n")
	if err != nil {
		t.Fatalf("FindRef: %v", err)
	}
	if f.(*ScalarField).Value() != uint64(7) {
		t.Errorf("FindRef(../n) = %v, want 7", f.(*ScalarField).Value())
	}
}

func TestFindRefDotSlashStripped(t *testing.T) {
	root := NewDict(nil, nil)
	root.Set("n", NewScalar(strp("n"), root, uint64(7), nil))

	f, err := root.FindRef("./n")
	if err != nil {
		t.Fatalf("FindRef: %v", err)
	}
	if f.(*ScalarField).Value() != uint64(7) {
		t.Errorf("FindRef(./n) = %v, want 7", f.(*ScalarField).Value())
	}
}

func TestFindRefMissingFails(t *testing.T) {
	root := NewDict(nil, nil)
	if _, err := root.FindRef("nope"); !errors.Is(err, ErrReference) {
		t.Fatalf("FindRef(nope) error = %v, want ErrReference", err)
	}
}

func TestFindRefNeverAdvancesCursor(t *testing.T) {
	// FindRef is purely a function of the already-built tree; this is
	// exercised end-to-end in scenario_test.go (Ref-resolved selectors
	// and counts read exactly the bits their token demands, no more).
	root := NewDict(nil, nil)
	root.Set("n", NewScalar(strp("n"), root, uint64(3), nil))
	before, _ := root.FindRef("n")
	after, _ := root.FindRef("n")
	if before.(*ScalarField).Value() != after.(*ScalarField).Value() {
		t.Errorf("FindRef is not idempotent")
	}
}

func TestMergeStrictDuplicateKeyFails(t *testing.T) {
	a := NewDict(nil, nil)
	a.Set("x", NewScalar(strp("x"), a, uint64(1), nil))
	b := NewDict(nil, nil)
	b.Set("x", NewScalar(strp("x"), b, uint64(2), nil))

	if err := a.MergeStrict(b); !errors.Is(err, ErrConverter) {
		t.Fatalf("MergeStrict duplicate key error = %v, want ErrConverter", err)
	}
}

func TestListFieldFindRefRejectsNamedLookup(t *testing.T) {
	list := NewList(nil, nil)
	if _, err := list.FindRef("anything"); !errors.Is(err, ErrReference) {
		t.Fatalf("List FindRef(anything) error = %v, want ErrReference", err)
	}
}
