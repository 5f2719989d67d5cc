// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"bytes"
	"encoding/binary"
	"math"
	"net/netip"
	"time"
)

// Term is an encoded literal value bound to a physical field. It is the
// atomic unit of exact-match and range queries. The value encoding is
// canonical per type and preserves value order under bytewise
// comparison, which is what range queries rely on.
type Term struct {
	field FieldID
	typ   FieldType
	value []byte
}

func TermFromFieldText(field FieldID, text string) Term {
	return Term{field: field, typ: FieldTypeStr, value: []byte(text)}
}

func TermFromFieldU64(field FieldID, v uint64) Term {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return Term{field: field, typ: FieldTypeU64, value: buf[:]}
}

func TermFromFieldI64(field FieldID, v int64) Term {
	var buf [8]byte
	// Flip the sign bit so bytewise order matches numeric order.
	binary.BigEndian.PutUint64(buf[:], uint64(v)^(1<<63))
	return Term{field: field, typ: FieldTypeI64, value: buf[:]}
}

func TermFromFieldF64(field FieldID, v float64) Term {
	bits := math.Float64bits(v)
	if bits>>63 == 0 {
		bits |= 1 << 63
	} else {
		bits = ^bits
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], bits)
	return Term{field: field, typ: FieldTypeF64, value: buf[:]}
}

func TermFromFieldBool(field FieldID, v bool) Term {
	b := byte(0)
	if v {
		b = 1
	}
	return Term{field: field, typ: FieldTypeBool, value: []byte{b}}
}

// TermFromFieldDate encodes t at microsecond precision.
func TermFromFieldDate(field FieldID, t time.Time) Term {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t.UTC().UnixMicro())^(1<<63))
	return Term{field: field, typ: FieldTypeDate, value: buf[:]}
}

func TermFromFieldBytes(field FieldID, v []byte) Term {
	value := make([]byte, len(v))
	copy(value, v)
	return Term{field: field, typ: FieldTypeBytes, value: value}
}

// TermFromFacet encodes a hierarchical path. Path steps are joined with
// a zero byte, which cannot occur inside a step.
func TermFromFacet(field FieldID, path ...string) Term {
	value := bytes.Join(stringsToBytes(path), []byte{0})
	return Term{field: field, typ: FieldTypeFacet, value: value}
}

func TermFromFieldIpAddr(field FieldID, addr netip.Addr) Term {
	v6 := addr.As16()
	return Term{field: field, typ: FieldTypeIpAddr, value: v6[:]}
}

func stringsToBytes(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

// Field returns the physical field the term is bound to.
func (t Term) Field() FieldID {
	return t.field
}

// Type returns the physical type the value was encoded as.
func (t Term) Type() FieldType {
	return t.typ
}

// ValueBytes returns the canonical encoding of the term's value.
func (t Term) ValueBytes() []byte {
	return t.value
}

// Text returns the term value as text. Only meaningful for str terms.
func (t Term) Text() string {
	return string(t.value)
}

// Compare orders terms by field, then type, then value bytes.
func (t Term) Compare(other Term) int {
	if t.field != other.field {
		if t.field < other.field {
			return -1
		}
		return 1
	}
	if t.typ != other.typ {
		if t.typ < other.typ {
			return -1
		}
		return 1
	}
	return bytes.Compare(t.value, other.value)
}

// Equal reports whether two terms are identical.
func (t Term) Equal(other Term) bool {
	return t.Compare(other) == 0
}
