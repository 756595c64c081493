// Package convert implements the standard post-parse field-tree
// converters: Squash, GetName, AddField, and Rekey. Each is a
// bitform.Converter — a callable that rewrites the field a token just
// produced.
package convert

import (
	"fmt"

	"github.com/cmj0121/bitform"
)

// Squash flattens a *bitform.ListField of records into one merged
// record, in order. It fails with bitform.ErrConverter on the first
// duplicate key. Fields that are not records are skipped: Squash only
// ever receives the list a Repeat produced, and every element of that
// list is the result of parsing the Repeat's body (a Sequence), which is
// always a record.
func Squash(f bitform.Field) (bitform.Field, error) {
	list, ok := f.(*bitform.ListField)
	if !ok {
		return nil, fmt.Errorf("%w: Squash expects a list, got %T", bitform.ErrConverter, f)
	}

	merged := bitform.NewDict(list.Name(), list.Parent())
	for _, item := range list.Items() {
		dict, ok := item.(*bitform.DictField)
		if !ok {
			continue
		}
		if err := merged.MergeStrict(dict); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// GetName looks up field[ref], optionally transforms it with conv, and
// uses the (stringified) result as the key under which field itself is
// wrapped: {key: field}. When remove is true, ref is deleted from field
// before wrapping.
func GetName(ref string, conv bitform.ValueConv, remove bool) bitform.Converter {
	return func(f bitform.Field) (bitform.Field, error) {
		dict, ok := f.(*bitform.DictField)
		if !ok {
			return nil, fmt.Errorf("%w: GetName expects a record, got %T", bitform.ErrConverter, f)
		}

		key, err := lookupKey(dict, ref, conv)
		if err != nil {
			return nil, err
		}

		if remove {
			dict.Delete(ref)
		}

		wrapper := bitform.NewDict(nil, dict.Parent())
		wrapper.Set(key, dict)
		return wrapper, nil
	}
}

// AddField copies (optionally via conv) field[ref] into field[name]. When
// onTop is true, the new key is inserted at the head of the record
// instead of the tail.
func AddField(name, ref string, conv bitform.ValueConv, onTop bool) bitform.Converter {
	return func(f bitform.Field) (bitform.Field, error) {
		dict, ok := f.(*bitform.DictField)
		if !ok {
			return nil, fmt.Errorf("%w: AddField expects a record, got %T", bitform.ErrConverter, f)
		}

		value, ok := dict.Get(ref)
		if !ok {
			return nil, fmt.Errorf("%w: AddField: no such field %q", bitform.ErrConverter, ref)
		}

		copied := value
		if scalar, ok := value.(*bitform.ScalarField); ok {
			v := scalar.Value()
			if conv != nil {
				v = conv(v)
			}
			copied = bitform.NewScalar(strPtr(name), dict, v, scalar.FieldType())
		}

		if onTop {
			dict.Prepend(name, copied)
		} else {
			dict.Set(name, copied)
		}
		return dict, nil
	}
}

// Rekey renames the wrapping record itself to the (stringified, or
// conv-transformed) value of one of its own fields, without removing
// that field — the standalone complement to GetName's remove-by-default
// wrap-and-rename.
func Rekey(ref string, conv bitform.ValueConv) bitform.Converter {
	return func(f bitform.Field) (bitform.Field, error) {
		dict, ok := f.(*bitform.DictField)
		if !ok {
			return nil, fmt.Errorf("%w: Rekey expects a record, got %T", bitform.ErrConverter, f)
		}

		key, err := lookupKey(dict, ref, conv)
		if err != nil {
			return nil, err
		}

		renamed := dict.Rename(key)
		return renamed, nil
	}
}

func lookupKey(dict *bitform.DictField, ref string, conv bitform.ValueConv) (string, error) {
	field, ok := dict.Get(ref)
	if !ok {
		return "", fmt.Errorf("%w: no such field %q", bitform.ErrConverter, ref)
	}
	scalar, ok := field.(*bitform.ScalarField)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a scalar", bitform.ErrConverter, ref)
	}

	value := scalar.Value()
	if conv != nil {
		value = conv(value)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func strPtr(s string) *string { return &s }
