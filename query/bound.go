// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package query

import (
	"encoding/json"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// Bound is one endpoint of a typed range. The zero value is unbounded,
// so a range variant that omits a bound gets no constraint on that
// side.
type Bound struct {
	Kind  index.BoundKind
	Value Value
}

func Included(v Value) Bound {
	return Bound{Kind: index.BoundIncluded, Value: v}
}

func Excluded(v Value) Bound {
	return Bound{Kind: index.BoundExcluded, Value: v}
}

func Unbounded() Bound {
	return Bound{Kind: index.BoundUnbounded}
}

// Equal reports structural equality, for tests.
func (b Bound) Equal(other Bound) bool {
	if b.Kind != other.Kind {
		return false
	}
	if b.Kind == index.BoundUnbounded {
		return true
	}
	return b.Value.Equal(other.Value)
}

// MarshalJSON writes the three tagged shapes: {"included": v},
// {"excluded": v} or "unbounded".
func (b Bound) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case index.BoundIncluded:
		return json.Marshal(map[string]Value{"included": b.Value})
	case index.BoundExcluded:
		return json.Marshal(map[string]Value{"excluded": b.Value})
	case index.BoundUnbounded:
		return json.Marshal("unbounded")
	default:
		return nil, errors.Errorf("unknown bound kind %d", b.Kind)
	}
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	kind, raw, err := decodeBoundShape(data)
	if err != nil {
		return err
	}
	b.Kind = kind
	if kind == index.BoundUnbounded {
		b.Value = Value{}
		return nil
	}
	return json.Unmarshal(raw, &b.Value)
}

// U64Bound is one endpoint of a raw unsigned range, used by fast field
// range scans.
type U64Bound struct {
	Kind  index.BoundKind
	Value uint64
}

func IncludedU64(v uint64) U64Bound {
	return U64Bound{Kind: index.BoundIncluded, Value: v}
}

func ExcludedU64(v uint64) U64Bound {
	return U64Bound{Kind: index.BoundExcluded, Value: v}
}

func UnboundedU64() U64Bound {
	return U64Bound{Kind: index.BoundUnbounded}
}

func (b U64Bound) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case index.BoundIncluded:
		return json.Marshal(map[string]uint64{"included": b.Value})
	case index.BoundExcluded:
		return json.Marshal(map[string]uint64{"excluded": b.Value})
	case index.BoundUnbounded:
		return json.Marshal("unbounded")
	default:
		return nil, errors.Errorf("unknown bound kind %d", b.Kind)
	}
}

func (b *U64Bound) UnmarshalJSON(data []byte) error {
	kind, raw, err := decodeBoundShape(data)
	if err != nil {
		return err
	}
	b.Kind = kind
	if kind == index.BoundUnbounded {
		b.Value = 0
		return nil
	}
	return json.Unmarshal(raw, &b.Value)
}

// toIndexBound converts a raw unsigned bound to the engine shape.
func (b U64Bound) toIndexBound() index.U64Bound {
	return index.U64Bound{Kind: b.Kind, Value: b.Value}
}

// decodeBoundShape handles the shared tagged encoding of both bound
// types. The tag is accepted in either capitalization.
func decodeBoundShape(data []byte) (index.BoundKind, json.RawMessage, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "unbounded" || s == "Unbounded" {
			return index.BoundUnbounded, nil, nil
		}
		return 0, nil, errors.Errorf("unknown bound %q", s)
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return 0, nil, errors.Wrap(err, "unmarshalling bound")
	}
	if len(tagged) != 1 {
		return 0, nil, errors.Errorf("bound must have exactly one tag, got %d", len(tagged))
	}
	for tag, raw := range tagged {
		switch tag {
		case "included", "Included":
			return index.BoundIncluded, raw, nil
		case "excluded", "Excluded":
			return index.BoundExcluded, raw, nil
		default:
			return 0, nil, errors.Errorf("unknown bound tag %q", tag)
		}
	}
	return 0, nil, errors.New(errors.ErrUncoded, "empty bound")
}
