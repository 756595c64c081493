package bitform

import "testing"

func TestSequenceNamedChildOrder(t *testing.T) {
	root := SequenceOf(Uint("a", 4), Uint("b", 4), Uint("c", 8))
	field, err := root.Deserialize([]byte{0x12, 0x03})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	dict := field.(*DictField)
	if got := dict.Keys(); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("Keys() = %v, want [a b c]", got)
	}
	wantScalar(t, dict, "a", uint64(1))
	wantScalar(t, dict, "b", uint64(2))
	wantScalar(t, dict, "c", uint64(3))
}

func TestSequenceAnonymousDictChildMergesUp(t *testing.T) {
	inner := SequenceOf(Uint("x", 4), Uint("y", 4))
	root := SequenceOf(Uint("flag", 8), inner)
	field, err := root.Deserialize([]byte{0xff, 0x12})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	dict := field.(*DictField)
	if got := dict.Keys(); len(got) != 3 {
		t.Fatalf("Keys() = %v, want 3 keys (flag, x, y)", got)
	}
	wantScalar(t, dict, "flag", uint64(255))
	wantScalar(t, dict, "x", uint64(1))
	wantScalar(t, dict, "y", uint64(2))
}

func TestSequenceNamedChildNotMerged(t *testing.T) {
	inner := Sequence("g", Uint("x", 4), Uint("y", 4))
	root := SequenceOf(inner)
	field, err := root.Deserialize([]byte{0x12})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	dict := field.(*DictField)
	if got := dict.Keys(); len(got) != 1 || got[0] != "g" {
		t.Fatalf("Keys() = %v, want [g]", got)
	}
	inner2, ok := dict.Get("g")
	if !ok {
		t.Fatalf("missing field g")
	}
	wantScalar(t, inner2.(*DictField), "x", uint64(1))
}

func TestSequenceAddConcatenatesChildrenAndConverters(t *testing.T) {
	var calls []string
	trackA := Converter(func(f Field) (Field, error) {
		calls = append(calls, "a")
		return f, nil
	})
	trackB := Converter(func(f Field) (Field, error) {
		calls = append(calls, "b")
		return f, nil
	})

	left := SequenceOf(Uint("x", 8)).WithConverters(trackA)
	right := SequenceOf(Uint("y", 8)).WithConverters(trackB)
	combined := left.Add(right)

	field, err := combined.Deserialize([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	dict := field.(*DictField)
	wantScalar(t, dict, "x", uint64(1))
	wantScalar(t, dict, "y", uint64(2))

	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("converter call order = %v, want [a b]", calls)
	}
}

func TestSequenceWithConvertersDoesNotMutateOriginal(t *testing.T) {
	conv := Converter(func(f Field) (Field, error) { return f, nil })
	base := SequenceOf(Uint("x", 8))
	derived := base.WithConverters(conv)

	if len(base.converters) != 0 {
		t.Errorf("base.converters = %v, want empty", base.converters)
	}
	if len(derived.converters) != 1 {
		t.Errorf("derived.converters len = %d, want 1", len(derived.converters))
	}
}
