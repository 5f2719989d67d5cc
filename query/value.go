// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package query

import (
	"bytes"
	"encoding/json"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/lcp202406/paradedb/errors"
)

// ValueKind enumerates the runtime representations a query literal can
// take.
type ValueKind int

const (
	ValueKindStr ValueKind = iota
	ValueKindPreTokStr
	ValueKindU64
	ValueKindI64
	ValueKindF64
	ValueKindBool
	ValueKindDate
	ValueKindFacet
	ValueKindBytes
	ValueKindJson
	ValueKindIpAddr
)

func (k ValueKind) String() string {
	switch k {
	case ValueKindStr:
		return "str"
	case ValueKindPreTokStr:
		return "pretok_str"
	case ValueKindU64:
		return "u64"
	case ValueKindI64:
		return "i64"
	case ValueKindF64:
		return "f64"
	case ValueKindBool:
		return "bool"
	case ValueKindDate:
		return "date"
	case ValueKindFacet:
		return "facet"
	case ValueKindBytes:
		return "bytes"
	case ValueKindJson:
		return "json"
	case ValueKindIpAddr:
		return "ip"
	default:
		return "unknown"
	}
}

// Value is a typed query literal. Leaf query variants carry one (or a
// list of) Value; value→term encoding turns it into an engine term
// according to the target field's physical type.
type Value struct {
	kind  ValueKind
	str   string
	u64   uint64
	i64   int64
	f64   float64
	b     bool
	date  time.Time
	facet []string
	bytes []byte
	json  map[string]interface{}
	ip    netip.Addr
}

func StrValue(s string) Value {
	return Value{kind: ValueKindStr, str: s}
}

// PreTokStrValue represents text that was tokenized before reaching the
// query layer. It exists only so document-side plumbing can share the
// Value type; it can never be encoded as a term.
func PreTokStrValue(s string) Value {
	return Value{kind: ValueKindPreTokStr, str: s}
}

func U64Value(v uint64) Value {
	return Value{kind: ValueKindU64, u64: v}
}

func I64Value(v int64) Value {
	return Value{kind: ValueKindI64, i64: v}
}

func F64Value(v float64) Value {
	return Value{kind: ValueKindF64, f64: v}
}

func BoolValue(v bool) Value {
	return Value{kind: ValueKindBool, b: v}
}

func DateValue(t time.Time) Value {
	return Value{kind: ValueKindDate, date: t.UTC()}
}

func FacetValue(path ...string) Value {
	return Value{kind: ValueKindFacet, facet: path}
}

func BytesValue(b []byte) Value {
	return Value{kind: ValueKindBytes, bytes: b}
}

func JsonValue(obj map[string]interface{}) Value {
	return Value{kind: ValueKindJson, json: obj}
}

func IpAddrValue(addr netip.Addr) Value {
	return Value{kind: ValueKindIpAddr, ip: addr}
}

func (v Value) Kind() ValueKind                    { return v.kind }
func (v Value) Str() string                        { return v.str }
func (v Value) U64() uint64                        { return v.u64 }
func (v Value) I64() int64                         { return v.i64 }
func (v Value) F64() float64                       { return v.f64 }
func (v Value) Bool() bool                         { return v.b }
func (v Value) Date() time.Time                    { return v.date }
func (v Value) Facet() []string                    { return v.facet }
func (v Value) Bytes() []byte                      { return v.bytes }
func (v Value) JsonObject() map[string]interface{} { return v.json }
func (v Value) IpAddr() netip.Addr                 { return v.ip }

// Equal reports structural equality. cmp.Diff picks this up in tests.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueKindStr, ValueKindPreTokStr:
		return v.str == other.str
	case ValueKindU64:
		return v.u64 == other.u64
	case ValueKindI64:
		return v.i64 == other.i64
	case ValueKindF64:
		return v.f64 == other.f64
	case ValueKindBool:
		return v.b == other.b
	case ValueKindDate:
		return v.date.Equal(other.date)
	case ValueKindFacet:
		if len(v.facet) != len(other.facet) {
			return false
		}
		for i := range v.facet {
			if v.facet[i] != other.facet[i] {
				return false
			}
		}
		return true
	case ValueKindBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case ValueKindJson:
		return reflect.DeepEqual(v.json, other.json)
	case ValueKindIpAddr:
		return v.ip == other.ip
	default:
		return false
	}
}

// MarshalJSON writes the value in its self-describing wire form.
// Dates, facets, byte strings and addresses all serialize as strings;
// a decoder cannot tell them apart from plain text, which is why term
// encoding re-parses date strings against date fields.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueKindStr, ValueKindPreTokStr:
		return json.Marshal(v.str)
	case ValueKindU64:
		return json.Marshal(v.u64)
	case ValueKindI64:
		return json.Marshal(v.i64)
	case ValueKindF64:
		return json.Marshal(v.f64)
	case ValueKindBool:
		return json.Marshal(v.b)
	case ValueKindDate:
		return json.Marshal(v.date.UTC().Format(time.RFC3339Nano))
	case ValueKindFacet:
		return json.Marshal("/" + strings.Join(v.facet, "/"))
	case ValueKindBytes:
		return json.Marshal(v.bytes) // base64 string
	case ValueKindJson:
		return json.Marshal(v.json)
	case ValueKindIpAddr:
		return json.Marshal(v.ip.String())
	default:
		return nil, errors.Errorf("cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes the wire form. Strings decode as text, objects
// as json values; integers decode unsigned when non-negative and
// signed otherwise, and any other number decodes as f64.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return errors.Wrap(err, "unmarshalling query value")
	}
	switch t := raw.(type) {
	case string:
		*v = StrValue(t)
	case bool:
		*v = BoolValue(t)
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if !strings.HasPrefix(s, "-") {
				if u, err := parseU64(s); err == nil {
					*v = U64Value(u)
					return nil
				}
			}
			if i, err := t.Int64(); err == nil {
				*v = I64Value(i)
				return nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return errors.Errorf("cannot decode number %q as query value", s)
		}
		*v = F64Value(f)
	case map[string]interface{}:
		*v = JsonValue(normalizeJsonObject(t))
	case nil:
		return errors.New(errors.ErrUncoded, "null is not a valid query value")
	default:
		return errors.Errorf("cannot decode %T as query value", raw)
	}
	return nil
}

func parseU64(s string) (uint64, error) {
	var u uint64
	err := json.Unmarshal([]byte(s), &u)
	return u, err
}

// normalizeJsonObject re-decodes nested json.Number values as plain
// float64 so decoded objects compare equal to naturally built ones.
func normalizeJsonObject(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, val := range obj {
		out[k] = normalizeJsonValue(val)
	}
	return out
}

func normalizeJsonValue(val interface{}) interface{} {
	switch t := val.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]interface{}:
		return normalizeJsonObject(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeJsonValue(e)
		}
		return out
	default:
		return val
	}
}
