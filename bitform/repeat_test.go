package bitform

import "testing"

func TestRepeatCountLiteral(t *testing.T) {
	root := Repeat("items", Count(2), Uint("v", 4))
	field, err := root.Deserialize([]byte{0x12, 0x30})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	list := field.(*ListField)
	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	wantScalar(t, list.Items()[0].(*DictField), "v", uint64(1))
	wantScalar(t, list.Items()[1].(*DictField), "v", uint64(2))
}

func TestRepeatCountWidthPrefix(t *testing.T) {
	root := RepeatOf(Width(8), Uint("v", 8))
	field, err := root.Deserialize([]byte{0x02, 0x05, 0x06})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	list := field.(*ListField)
	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	wantScalar(t, list.Items()[0].(*DictField), "v", uint64(5))
	wantScalar(t, list.Items()[1].(*DictField), "v", uint64(6))
}

func TestRepeatNoArgRunsUntilExhausted(t *testing.T) {
	root := RepeatOf(NoArg(), Uint("v", 8))
	field, err := root.Deserialize([]byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	list := field.(*ListField)
	if list.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", list.Len())
	}
}

func TestRepeatZeroCountYieldsEmptyList(t *testing.T) {
	root := Repeat("items", Count(0), Uint("v", 8))
	field, err := root.Deserialize(nil)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if field.(*ListField).Len() != 0 {
		t.Errorf("Len() = %d, want 0", field.(*ListField).Len())
	}
}

func TestRepeatSquashMergesIterationsIntoOneRecord(t *testing.T) {
	body := SequenceOf(Uint("a", 4))
	rep := RepeatOf(Count(1), body).Squash()
	field, err := rep.Deserialize([]byte{0x50})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	dict := field.(*DictField)
	wantScalar(t, dict, "a", uint64(5))
}

func TestRepeatRefCountResolvesAgainstSibling(t *testing.T) {
	root := SequenceOf(
		Uint("n", 8),
		Repeat("items", FromRef("n"), Uint("v", 8)),
	)
	field, err := root.Deserialize([]byte{0x03, 0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	listField, _ := field.(*DictField).Get("items")
	if listField.(*ListField).Len() != 3 {
		t.Fatalf("Len() = %d, want 3", listField.(*ListField).Len())
	}
}
